package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/news-portal-api/internal/application"
)

// maxUploadBytes bounds one multipart request
const maxUploadBytes = 32 << 20

// openedFiles keeps the multipart parts handed to a service open until the handler returns.
type openedFiles []multipart.File

func (o openedFiles) Close() {
	for _, f := range o {
		_ = f.Close()
	}
}

func openImage(fh *multipart.FileHeader) (application.ImageFile, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return application.ImageFile{}, nil, err
	}
	return application.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, f, nil
}

// formImage returns the single optional file in field; nil when absent.
func formImage(c *gin.Context, field string) (*application.ImageFile, openedFiles, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	img, f, err := openImage(fh)
	if err != nil {
		return nil, nil, err
	}
	return &img, openedFiles{f}, nil
}

// formImages returns every file sent under field, whether one or many.
func formImages(c *gin.Context, field string) ([]application.ImageFile, openedFiles, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	headers := form.File[field]
	images := make([]application.ImageFile, 0, len(headers))
	opened := make(openedFiles, 0, len(headers))
	for _, fh := range headers {
		img, f, err := openImage(fh)
		if err != nil {
			opened.Close()
			return nil, nil, err
		}
		images = append(images, img)
		opened = append(opened, f)
	}
	return images, opened, nil
}
