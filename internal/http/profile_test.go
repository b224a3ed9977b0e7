package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/service"
	"github.com/codemasterhq/codemaster/internal/store/storetest"
	"github.com/codemasterhq/codemaster/pkg/httpx"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// An account can vanish between the middleware existence check and the
// handler's own store access. The picture handlers answer 404, not 500.
func TestProfilePictureVanishedAccount(t *testing.T) {
	st := storetest.New()
	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	users := service.NewUserService(st, revocation.NewMemoryRegistry(),
		service.NewTokenService(signer, "codemaster", time.Hour))
	h := &ProfileHandler{UserService: users}

	ctx := context.WithValue(context.Background(), httpx.CtxKeyUserID, "gone")

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/profilePicture", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.HandleGetPicture(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("set", func(t *testing.T) {
		body := strings.NewReader(`{"image":"https://img.example.com/ann.png"}`)
		req := httptest.NewRequest(http.MethodPut, "/user/profilePicture", body).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.HandleSetPicture(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
