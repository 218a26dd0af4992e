package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// maxImagesPerRequest bounds the request body together with the upload size.
const maxImagesPerRequest = 10

// limitBody caps the request body so a submission cannot exhaust memory.
func limitBody(c *gin.Context, maxUpload int64) {
	limit := maxUpload*maxImagesPerRequest + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

// readSubmission reads a multipart or urlencoded recipe form. Ingredient arrays
// may use either "ingredient_name" or "ingredient_name[]".
func readSubmission(c *gin.Context, maxUpload int64) (*types.RecipeSubmission, error) {
	sub := &types.RecipeSubmission{}
	if err := c.ShouldBindWith(&sub.Recipe, binding.Form); err != nil {
		return nil, err
	}
	if err := c.ShouldBindWith(&sub.Nutrition, binding.Form); err != nil {
		return nil, err
	}

	sub.Ingredients = service.ZipIngredientRows(
		formArray(c, "ingredient_name"),
		formArray(c, "ingredient_quantity"),
		formArray(c, "ingredient_unit"),
		formArray(c, "ingredient_optional"),
	)

	images, err := readFiles(c, maxUpload, "images", "images[]", "image")
	if err != nil {
		return nil, err
	}
	sub.Images = images
	return sub, nil
}

func formArray(c *gin.Context, name string) []string {
	if values := c.PostFormArray(name); len(values) > 0 {
		return values
	}
	return c.PostFormArray(name + "[]")
}

// readFiles loads the files sent under any of fields. Each file is read up to one
// byte past maxUpload so oversized files are detected without reading them whole.
func readFiles(c *gin.Context, maxUpload int64, fields ...string) ([]types.Upload, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var uploads []types.Upload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			up, err := readFile(fh, maxUpload)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, up)
		}
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader, maxUpload int64) (types.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return types.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		return types.Upload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return types.Upload{Filename: fh.Filename, Size: fh.Size, Data: data}, nil
}
