package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSecCtx build security context
func BuildSecCtx(uid types.ID, perms ...string) *session.Context {
	return &session.Context{Token: "test-token", Identity: session.Identity{ID: uid, Name: "user_" + uid.String()}, Perms: perms}
}

// ExecuteRequest drives the router with req and collects the response
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	bodyBytes, _ := ioutil.ReadAll(w.Body)
	return w.Code, string(bodyBytes), w
}
