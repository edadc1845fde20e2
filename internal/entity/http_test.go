package entity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PharmInc/media-gateway/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntityRouter(caches *Caches) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, caches)
	return router
}

func TestGetUserEndpointServesFromCache(t *testing.T) {
	fetches := 0
	caches := &Caches{
		Users: NewCache(cache.NewMemory(), "user", func(_ context.Context, key string) (User, error) {
			fetches++
			return User{ID: key, Name: "Dr. Iqbal"}, nil
		}),
	}
	router := newEntityRouter(caches)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/u1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var user User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "Dr. Iqbal", user.Name)
	}

	assert.Equal(t, 1, fetches, "second request must not reach the upstream")
}

func TestRefreshQueryForcesRefetch(t *testing.T) {
	fetches := 0
	caches := &Caches{
		Users: NewCache(cache.NewMemory(), "user", func(_ context.Context, key string) (User, error) {
			fetches++
			return User{ID: key}, nil
		}),
	}
	router := newEntityRouter(caches)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/u1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/u1?refresh=true", nil))

	assert.Equal(t, 2, fetches)
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	caches := &Caches{
		Jobs: NewCache(cache.NewMemory(), "jobs", func(_ context.Context, _ string) ([]Job, error) {
			return nil, assert.AnError
		}),
	}
	router := newEntityRouter(caches)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/institutions/i1/jobs", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
