package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeDatabaseNotReady   Code = "DATABASE_NOT_READY"
)

// Project errors.
const (
	CodeProjectNotFound     Code = "PROJECT_NOT_FOUND"
	CodeProjectCreateFailed Code = "PROJECT_CREATE_FAILED"
	CodeProjectUpdateFailed Code = "PROJECT_UPDATE_FAILED"
	CodeProjectDeleteFailed Code = "PROJECT_DELETE_FAILED"
	CodeProjectListFailed   Code = "PROJECT_LIST_FAILED"
	CodeProjectCountFailed  Code = "PROJECT_COUNT_FAILED"
)

// Source errors.
const (
	CodeSourceNotFound     Code = "SOURCE_NOT_FOUND"
	CodeInvalidSourceID    Code = "INVALID_SOURCE_ID"
	CodeInvalidSourceType  Code = "INVALID_SOURCE_TYPE"
	CodeSourceCreateFailed Code = "SOURCE_CREATE_FAILED"
	CodeSourceDeleteFailed Code = "SOURCE_DELETE_FAILED"
	CodeSourceListFailed   Code = "SOURCE_LIST_FAILED"
)

// Import run errors.
const (
	CodeImportRunNotFound     Code = "IMPORT_RUN_NOT_FOUND"
	CodeInvalidRunID          Code = "INVALID_RUN_ID"
	CodeImportRunCreateFailed Code = "IMPORT_RUN_CREATE_FAILED"
	CodeImportRunListFailed   Code = "IMPORT_RUN_LIST_FAILED"
	CodeImportRunCancelFailed Code = "IMPORT_RUN_CANCEL_FAILED"
	CodeImportInProgress      Code = "IMPORT_IN_PROGRESS"
	CodeNoSources             Code = "NO_SOURCES"
)

// Workspace errors.
const (
	CodeModuleListFailed Code = "MODULE_LIST_FAILED"
)

// Validation errors.
const (
	CodeSlugRequired Code = "SLUG_REQUIRED"
	CodeSlugInvalid  Code = "SLUG_INVALID"
	CodeNameRequired Code = "NAME_REQUIRED"
	CodeNameTooLong  Code = "NAME_TOO_LONG"
)

// Upload errors.
const (
	CodeFileRequired Code = "FILE_REQUIRED"
	CodeUploadFailed Code = "UPLOAD_FAILED"
)

// Auth errors.
const (
	CodeMissingAuthToken Code = "MISSING_AUTH_TOKEN"
	CodeInvalidAuthToken Code = "INVALID_AUTH_TOKEN"
)
