package mirror

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnm-sh/fnm/internal/logger"
)

func TestHTTPS(t *testing.T) {
	t.Parallel()

	serverStorage := map[string][]byte{}
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := serverStorage[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(b)
	}))
	t.Cleanup(testServer.Close)

	base, err := url.Parse(testServer.URL + "/dist/")
	require.NoError(t, err)

	https := NewHTTPS(logger.NewTestBuilder(), base)

	b, err := https.Fetch(stdTestArtifact)
	require.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Nil(t, b)

	serverStorage["/dist/"+stdTestArtifact.RemotePath()] = stdTestContent

	b, err = https.Fetch(stdTestArtifact)
	require.NoError(t, err)
	assert.Equal(t, stdTestContent, b)
}
