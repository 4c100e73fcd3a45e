package tika_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/adapter/textextractor/tika"
)

func TestClient_ExtractPath(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "resume.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("resume body"), 0o600))

	tests := []struct {
		name     string
		fileName string
		filePath string
		handler  http.HandlerFunc
		want     string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "successful extraction",
			fileName: "resume.txt",
			filePath: testFile,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/tika", r.URL.Path)
				assert.Equal(t, "text/plain", r.Header.Get("Accept"))

				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, "resume body", string(body))

				_, _ = w.Write([]byte("Extracted resume text"))
			},
			want: "Extracted resume text",
		},
		{
			name:     "pdf content type",
			fileName: "resume.pdf",
			filePath: testFile,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
				_, _ = w.Write([]byte("PDF text"))
			},
			want: "PDF text",
		},
		{
			name:     "docx content type",
			fileName: "resume.docx",
			filePath: testFile,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
					r.Header.Get("Content-Type"))
				_, _ = w.Write([]byte("DOCX text"))
			},
			want: "DOCX text",
		},
		{
			name:     "server error",
			fileName: "resume.txt",
			filePath: testFile,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
			errMsg:  "tika status 500",
		},
		{
			name:     "file not found",
			fileName: "missing.txt",
			filePath: filepath.Join(tmpDir, "missing.txt"),
			handler:  func(_ http.ResponseWriter, _ *http.Request) {},
			wantErr:  true,
			errMsg:   "no such file",
		},
		{
			name:     "whitespace normalized",
			fileName: "resume.txt",
			filePath: testFile,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("Text with\ttabs\nand\r\nnewlines   and    spaces"))
			},
			want: "Text with tabs and newlines and spaces",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := tika.New(server.URL)
			got, err := client.ExtractPath(context.Background(), tt.fileName, tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, tika.New(""))
}
