package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeAndCleanInputMiddleware strips markup from top-level string fields
// of JSON write bodies.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid body"})
			return
		}

		var body map[string]json.RawMessage
		if err := json.Unmarshal(buf, &body); err != nil || body == nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Malformed JSON"})
			return
		}

		for k, v := range body {
			var str string
			if json.Unmarshal(v, &str) != nil {
				continue
			}
			clean, err := json.Marshal(sanitizeString(policy, str))
			if err != nil {
				continue
			}
			body[k] = clean
		}

		newBody, err := json.Marshal(body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Malformed JSON"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

const maxSanitizePasses = 8

// sanitizeString strips markup and decodes entities until the text is stable,
// so entity-encoded tags cannot come back as live markup. Text that never
// settles is returned in its escaped form.
func sanitizeString(policy *bluemonday.Policy, s string) string {
	clean := s
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(policy.Sanitize(clean))
		if next == clean {
			return next
		}
		clean = next
	}
	return policy.Sanitize(clean)
}
