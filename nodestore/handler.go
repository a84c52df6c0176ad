// SPDX-License-Identifier: EPL-2.0

package nodestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const octetStream = "application/octet-stream"

// Handler serves s over HTTP:
//
//	GET /nodes/*path   values of the matching nodes as {"path": value}
//	PUT /nodes/*path   body {"value": v}, or raw bytes sent as octet-stream
//	GET /info/*pattern node metadata below pattern
func Handler(s *Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "nodes": len(s.Paths())})
	})

	r.GET("/nodes/*path", func(c *gin.Context) {
		path := c.Param("path")
		values, err := s.Get(c.Request.Context(), path)
		if err != nil {
			abort(c, err)
			return
		}
		if strings.Contains(c.GetHeader("Accept"), octetStream) && len(values) == 1 {
			for _, v := range values {
				if b, ok := v.([]byte); ok {
					c.Data(http.StatusOK, octetStream, b)
					return
				}
			}
		}
		c.JSON(http.StatusOK, values)
	})

	r.PUT("/nodes/*path", func(c *gin.Context) {
		path := c.Param("path")
		ctx := c.Request.Context()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if c.ContentType() == octetStream {
			err = s.SetVector(ctx, path, body)
		} else {
			var v any
			v, err = decodeValue(body)
			if err == nil {
				err = s.Set(ctx, path, v)
			}
		}
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "node": strings.ToLower(path)})
	})

	r.GET("/info/*pattern", func(c *gin.Context) {
		pattern := strings.TrimSuffix(c.Param("pattern"), "/")
		if pattern == "" {
			pattern = "*"
		}
		c.JSON(http.StatusOK, s.Info().Matching(pattern))
	})

	return r
}

// decodeValue reads {"value": v}. Integral numbers become int64.
func decodeValue(body []byte) (any, error) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.Join(ErrType, err)
	}
	if len(req.Value) == 0 {
		return nil, errors.Join(ErrType, errors.New(`missing "value"`))
	}

	dec := json.NewDecoder(bytes.NewReader(req.Value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Join(ErrType, err)
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, errors.Join(ErrType, err)
		}
		return f, nil
	}

	return v, nil
}

func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrReadOnly), errors.Is(err, ErrWriteOnly):
		status = http.StatusForbidden
	case errors.Is(err, ErrType), errors.Is(err, ErrUnknownEnum), errors.Is(err, ErrWildcard):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// RequestLogger logs one line per request at a level that follows the
// response status.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		event := logger.Debug()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("node", c.Param("path")).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	}
}
