package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/testhelpers"
)

func TestTagEndpoints(t *testing.T) {
	router, db := setupTestAPI(t)
	tag := testhelpers.CreateTestTag(t, db, "dinner")

	t.Run("list", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/tags", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var tags []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
		require.Len(t, tags, 1)
		assert.Equal(t, "dinner", tags[0]["slug"])
	})

	t.Run("get", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/tags/"+tag.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dinner", decodeBody(t, w)["slug"])
	})

	t.Run("unknown id", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/tags/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIngredientEndpoints(t *testing.T) {
	router, db := setupTestAPI(t)
	salt := testhelpers.CreateTestIngredient(t, db, "salt", "g")
	testhelpers.CreateTestIngredient(t, db, "saffron", "g")
	testhelpers.CreateTestIngredient(t, db, "sugar", "g")

	t.Run("search by prefix", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/ingredients?name=sa", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var ingredients []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
		assert.Len(t, ingredients, 2)
	})

	t.Run("get", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/ingredients/"+salt.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "salt", body["name"])
		assert.Equal(t, "g", body["measurement_unit"])
	})

	t.Run("unknown id", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/ingredients/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
