package filestorage

import (
	"mime/multipart"
)

// FileStorage saves uploaded files and returns a URL clients can fetch them from
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its public URL
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file given its public URL
	DeleteFile(fileURL string) error
}
