// Package restapi surfaces the open documents of an application over a read-mostly REST API,
// for browsing label trees with tools like curl or Postman.
package restapi

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"
	swaggerfiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/restapi/docs"
)

var registerOnce sync.Once

func registerDocumentMethods() {
	RegisterMethod(GET, "/documents", GetDocuments)
	RegisterMethod(GET_ONE, "/documents/:name", GetDocumentByName)
	RegisterMethod(GET, "/documents/:name/dump", GetDocumentDump)
	RegisterMethod(GET, "/documents/:name/label", GetLabel)
	RegisterMethod(GET, "/documents/:name/select", SelectLabels)
	RegisterMethod(POST, "/documents/:name/undo", UndoDocument)
	RegisterMethod(POST, "/documents/:name/redo", RedoDocument)
	RegisterMethod(POST, "/documents/:name/save", SaveDocument)
}

// NewRouter creates the HTTP router, making endpoint handlers out of the registered (REST)
// methods under opts.BasePath, plus the swagger endpoint.
func NewRouter(opts ocaf.RESTOptions) *gin.Engine {
	registerOnce.Do(registerDocumentMethods)

	// Simple closure for header token verification.
	verifyHeaderToken := func(realHandler func(c *gin.Context)) func(c *gin.Context) {
		return func(c *gin.Context) {
			if verify(c) {
				realHandler(c)
			}
		}
	}

	basePath := opts.BasePath
	if basePath == "" {
		basePath = "/api/v1"
	}
	router := gin.Default()
	docs.SwaggerInfo.BasePath = basePath

	v1 := router.Group(basePath)
	{
		for _, rm := range RestMethods() {
			switch rm.Verb {
			case GET, GET_ONE:
				v1.GET(rm.Path, verifyHeaderToken(rm.Handler))
			case DELETE:
				v1.DELETE(rm.Path, verifyHeaderToken(rm.Handler))
			case POST:
				v1.POST(rm.Path, verifyHeaderToken(rm.Handler))
			case PUT:
				v1.PUT(rm.Path, verifyHeaderToken(rm.Handler))
			case PATCH:
				v1.PATCH(rm.Path, verifyHeaderToken(rm.Handler))
			default:
				panic(fmt.Sprintf("HTTP verb %d not supported", rm.Verb))
			}
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return router
}

var toValidate = map[string]string{
	"aud": "api://default",
	"cid": os.Getenv("OKTA_CLIENT_ID"),
}

// verify checks the bearer token in header. OCAF_ENV=DEV disables the check and
// OCAF_ENV=QA accepts OCAF_QA_TOKEN.
func verify(c *gin.Context) bool {
	// Allow easy debugging on dev.
	if os.Getenv("OCAF_ENV") == "DEV" {
		return true
	}

	token, ok := strings.CutPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
	if !ok {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return false
	}

	// Allow easy QA, bypass Okta based OAuth2 token verification w/ simple token equality check.
	if os.Getenv("OCAF_ENV") == "QA" {
		if qaToken := os.Getenv("OCAF_QA_TOKEN"); qaToken != "" && token == qaToken {
			return true
		}
	}

	verifierSetup := jwtverifier.JwtVerifier{
		Issuer:           "https://" + os.Getenv("OKTA_DOMAIN") + "/oauth2/default",
		ClaimsToValidate: toValidate,
	}
	verifier := verifierSetup.New()
	if _, err := verifier.VerifyAccessToken(token); err != nil {
		c.String(http.StatusForbidden, err.Error())
		return false
	}
	return true
}
