// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/answerit/core"
)

// runRequest is the inbound payload of POST /hackrx/run.
type runRequest struct {
	Documents string   `json:"documents" binding:"required"`
	Questions []string `json:"questions" binding:"required"`
}

// runResponse carries answers index-aligned with the request's questions.
type runResponse struct {
	Answers []string `json:"answers"`
}

func serveCommand(c *cli.Context) error {
	service, cleanup, err := buildService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	router := newRouter(service, c.String("auth-token"))

	addr := c.String("listen")
	slog.Info("listening", "addr", addr)
	return router.Run(addr)
}

// processor is the slice of the service the HTTP layer needs.
type processor interface {
	Process(ctx context.Context, documentURL string, questions []string) ([]string, string, error)
}

func newRouter(service processor, authToken string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	if authToken != "" {
		api.Use(bearerAuth(authToken))
	}
	api.POST("/hackrx/run", runHandler(service))

	return router
}

// bearerAuth rejects requests whose Authorization header does not carry
// the expected bearer token.
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || provided != token {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Next()
	}
}

func runHandler(service processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		answers, location, err := service.Process(c.Request.Context(), req.Documents, req.Questions)
		if err != nil {
			status := http.StatusInternalServerError
			message := "internal error"
			if isRequestError(err) {
				status = http.StatusBadRequest
				message = err.Error()
			} else {
				slog.Error("request failed", "err", err)
			}
			c.JSON(status, gin.H{"error": message})
			return
		}

		if location != "" {
			c.Header("X-Run-Log", location)
		}
		c.JSON(http.StatusOK, runResponse{Answers: answers})
	}
}

// isRequestError reports whether the failure was caused by the request
// itself rather than by the service.
func isRequestError(err error) bool {
	return errors.Is(err, core.ErrValidation) ||
		errors.Is(err, core.ErrFetch) ||
		errors.Is(err, core.ErrIngestion) ||
		errors.Is(err, core.ErrEmptyDocument)
}
