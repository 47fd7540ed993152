package images

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00,")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestPolicyAcceptsImages(t *testing.T) {
	policy := DefaultPolicy()

	require.NoError(t, policy.Validate(fileHeader(t, "logo.png", pngHeader)))
	require.NoError(t, policy.Validate(fileHeader(t, "logo.GIF", gifHeader)))
	require.NoError(t, policy.Validate(fileHeader(t, "logo.jpg", jpegHeader)))
	require.NoError(t, policy.Validate(fileHeader(t, "logo.jpeg", jpegHeader)))
}

func TestPolicyRejectsWrongExtension(t *testing.T) {
	err := DefaultPolicy().Validate(fileHeader(t, "logo.svg", []byte("<svg></svg>")))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPolicyRejectsMismatchedContent(t *testing.T) {
	err := DefaultPolicy().Validate(fileHeader(t, "logo.png", []byte("plain text pretending")))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPolicyRejectsLargeFiles(t *testing.T) {
	policy := Policy{MaxSize: 16, Extensions: []string{"png"}}
	err := policy.Validate(fileHeader(t, "logo.png", pngHeader))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestPolicyRestrictsToConfiguredExtensions(t *testing.T) {
	policy := Policy{Extensions: []string{".png"}}
	require.NoError(t, policy.Validate(fileHeader(t, "logo.png", pngHeader)))
	require.ErrorIs(t, policy.Validate(fileHeader(t, "logo.gif", gifHeader)), ErrUnsupportedType)
}

func TestPolicyNilHeader(t *testing.T) {
	require.ErrorIs(t, DefaultPolicy().Validate(nil), ErrUnsupportedType)
}
