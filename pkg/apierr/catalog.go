package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InvalidID(entity string) *Error {
	return New(CodeInvalidID, http.StatusBadRequest, "Invalid "+entity+" ID")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}

// --- Project ---

func ProjectNotFound() *Error {
	return New(CodeProjectNotFound, http.StatusNotFound, "Project not found")
}

func ProjectCreateFailed(cause error) *Error {
	return Wrap(CodeProjectCreateFailed, http.StatusInternalServerError, "Failed to create project", cause)
}

func ProjectUpdateFailed(cause error) *Error {
	return Wrap(CodeProjectUpdateFailed, http.StatusInternalServerError, "Failed to update project", cause)
}

func ProjectDeleteFailed(cause error) *Error {
	return Wrap(CodeProjectDeleteFailed, http.StatusInternalServerError, "Failed to delete project", cause)
}

func ProjectListFailed(cause error) *Error {
	return Wrap(CodeProjectListFailed, http.StatusInternalServerError, "Failed to list projects", cause)
}

func ProjectCountFailed(cause error) *Error {
	return Wrap(CodeProjectCountFailed, http.StatusInternalServerError, "Failed to count projects", cause)
}

// --- Source ---

func SourceNotFound() *Error {
	return New(CodeSourceNotFound, http.StatusNotFound, "Source not found")
}

func InvalidSourceID() *Error {
	return New(CodeInvalidSourceID, http.StatusBadRequest, "Invalid source ID")
}

func InvalidSourceType() *Error {
	return New(CodeInvalidSourceType, http.StatusBadRequest, "source_type must be one of: git, s3, upload")
}

func SourceCreateFailed(cause error) *Error {
	return Wrap(CodeSourceCreateFailed, http.StatusInternalServerError, "Failed to create source", cause)
}

func SourceDeleteFailed(cause error) *Error {
	return Wrap(CodeSourceDeleteFailed, http.StatusInternalServerError, "Failed to delete source", cause)
}

func SourceListFailed(cause error) *Error {
	return Wrap(CodeSourceListFailed, http.StatusInternalServerError, "Failed to list sources", cause)
}

// --- Import run ---

func ImportRunNotFound() *Error {
	return New(CodeImportRunNotFound, http.StatusNotFound, "Import run not found")
}

func InvalidRunID() *Error {
	return New(CodeInvalidRunID, http.StatusBadRequest, "Invalid import run ID")
}

func ImportRunCreateFailed(cause error) *Error {
	return Wrap(CodeImportRunCreateFailed, http.StatusInternalServerError, "Failed to create import run", cause)
}

func ImportRunListFailed(cause error) *Error {
	return Wrap(CodeImportRunListFailed, http.StatusInternalServerError, "Failed to list import runs", cause)
}

func ImportRunCancelFailed(cause error) *Error {
	return Wrap(CodeImportRunCancelFailed, http.StatusInternalServerError, "Failed to cancel import run", cause)
}

func ImportInProgress() *Error {
	return New(CodeImportInProgress, http.StatusConflict, "An import is already in progress for this project")
}

func NoSources() *Error {
	return New(CodeNoSources, http.StatusBadRequest, "Project has no sources to import from")
}

// --- Workspace ---

func ModuleListFailed(cause error) *Error {
	return Wrap(CodeModuleListFailed, http.StatusInternalServerError, "Failed to list modules", cause)
}

// --- Validation ---

func SlugRequired() *Error {
	return New(CodeSlugRequired, http.StatusBadRequest, "slug is required")
}

func SlugInvalid() *Error {
	return New(CodeSlugInvalid, http.StatusBadRequest, "slug must be lowercase alphanumeric with hyphens, 3-63 chars")
}

func NameRequired() *Error {
	return New(CodeNameRequired, http.StatusBadRequest, "name is required")
}

func NameTooLong() *Error {
	return New(CodeNameTooLong, http.StatusBadRequest, "name must be at most 255 characters")
}

// --- Upload ---

func FileRequired() *Error {
	return New(CodeFileRequired, http.StatusBadRequest, "multipart field 'file' is required")
}

func UploadFailed(cause error) *Error {
	return Wrap(CodeUploadFailed, http.StatusInternalServerError, "Failed to store uploaded file", cause)
}

// --- Auth ---

func MissingAuthToken() *Error {
	return New(CodeMissingAuthToken, http.StatusUnauthorized, "Missing webhook token")
}

func InvalidAuthToken() *Error {
	return New(CodeInvalidAuthToken, http.StatusUnauthorized, "Invalid webhook token")
}
