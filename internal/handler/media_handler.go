package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
)

// Uploader stores multipart files and hands back their public references.
type Uploader interface {
	Save(file multipart.File, header *multipart.FileHeader, kind service.UploadKind) (string, error)
	Remove(ref string)
}

// upload stores the optional form file in field. It returns "" when the
// field is absent.
func upload(c *gin.Context, media Uploader, field string, kind service.UploadKind) (string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", service.ErrMalformedRequest
	}
	defer file.Close()
	return media.Save(file, header, kind)
}

// requireUpload is upload for a mandatory field.
func requireUpload(c *gin.Context, media Uploader, field string, kind service.UploadKind) (string, bool) {
	ref, err := upload(c, media, field, kind)
	if err != nil {
		failWithError(c, err)
		return "", false
	}
	if ref == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return "", false
	}
	return ref, true
}
