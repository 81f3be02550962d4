package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/services"
)

func authRouter(t *testing.T, as services.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceContext())
	r.Use(NewAuthMiddleware(logger.Nop(), as).RequireAuth())
	r.GET("/api/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})
	return r
}

func TestRequireAuthAcceptsBearerAndQueryToken(t *testing.T) {
	as := services.NewAuthService(logger.Nop(), "secret", uuid.Nil)
	uid := uuid.New()
	tok, err := as.IssueToken(uid, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	r := authRouter(t, as)

	for name, req := range map[string]*http.Request{
		"header": httptest.NewRequest(http.MethodGet, "/api/whoami", nil),
		"query":  httptest.NewRequest(http.MethodGet, "/api/whoami?token="+tok, nil),
	} {
		if name == "header" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != uid.String() {
			t.Fatalf("%s: status=%d body=%q", name, rec.Code, rec.Body.String())
		}
		if rec.Header().Get(HeaderRequestID) == "" {
			t.Fatalf("%s: missing request id header", name)
		}
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r := authRouter(t, services.NewAuthService(logger.Nop(), "secret", uuid.Nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", rec.Code)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Error.Code != "unauthenticated" {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}
}

func TestRequireAuthFallsBackToDevUser(t *testing.T) {
	dev := uuid.New()
	r := authRouter(t, services.NewAuthService(logger.Nop(), "", dev))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != dev.String() {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestTraceContextKeepsClientRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(context.Background())
	req.Header.Set(HeaderRequestID, "req-42")
	req.Header.Set(HeaderTraceID, "trace-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-42" || seen.TraceID != "trace-7" {
		t.Fatalf("unexpected trace data %+v", seen)
	}
	if rec.Header().Get(HeaderTraceID) != "trace-7" {
		t.Fatalf("trace id not echoed")
	}
}
