package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// FlashCookie holds messages queued for the next page view.
	FlashCookie = "flash"

	flashContextKey  = "flash_messages"
	secureContextKey = "secure_cookie"

	// Browsers cap a cookie near 4KB; older messages are dropped first.
	maxFlashCookieBytes = 3072
)

// Flash levels used by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown after a redirect.
type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Flashes records the cookie security flag for AddFlash and PopFlashes.
func Flashes(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureContextKey, secureCookie)
		c.Next()
	}
}

// AddFlash queues a message in the flash cookie.
func AddFlash(c *gin.Context, level, text string) {
	pending := readFlashes(c)
	if queued, ok := c.Get(flashContextKey); ok {
		pending = queued.([]Flash)
	}
	pending = append(pending, Flash{Level: level, Text: text})

	encoded := encodeFlashes(pending)
	for len(encoded) > maxFlashCookieBytes && len(pending) > 1 {
		pending = pending[1:]
		encoded = encodeFlashes(pending)
	}

	c.Set(flashContextKey, pending)
	setFlashCookie(c, encoded, 300)
}

// PopFlashes returns the queued messages and clears the cookie.
func PopFlashes(c *gin.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		setFlashCookie(c, "", -1)
	}
	return flashes
}

func readFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}

func encodeFlashes(flashes []Flash) string {
	data, err := json.Marshal(flashes)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func setFlashCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, value, maxAge, cookiePath(c), "", c.GetBool(secureContextKey), true)
}
