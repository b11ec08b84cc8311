package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"tattoola/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// черновики мастеров, которые можно синхронизировать между устройствами
var draftKeys = map[string]bool{
	"wizard.user-registration":   true,
	"wizard.artist-registration": true,
	"wizard.studio-setup":        true,
}

const maxDraftSize = 256 << 10

// DraftStore задается при сборке роутов: Redis на сервере, память в тестах
var DraftStore kvstore.Store = kvstore.NewMemory()

func draftKey(c *gin.Context) (string, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return "", false
	}
	key := c.Param("key")
	if !draftKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown draft"})
		return "", false
	}
	return userKey(userID, key), true
}

func userKey(userID uuid.UUID, key string) string {
	return userID.String() + ":" + key
}

func GetDraft(c *gin.Context) {
	key, ok := draftKey(c)
	if !ok {
		return
	}
	value, found, err := DraftStore.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "Failed to read draft")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(value))
}

func PutDraft(c *gin.Context) {
	key, ok := draftKey(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDraftSize+1))
	if err != nil || len(body) > maxDraftSize || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draft"})
		return
	}
	if err := DraftStore.Set(c.Request.Context(), key, string(body)); err != nil {
		respondError(c, err, "Failed to save draft")
		return
	}
	c.Status(http.StatusNoContent)
}

func DeleteDraft(c *gin.Context) {
	key, ok := draftKey(c)
	if !ok {
		return
	}
	if err := DraftStore.Remove(c.Request.Context(), key); err != nil {
		respondError(c, err, "Failed to delete draft")
		return
	}
	c.Status(http.StatusNoContent)
}
