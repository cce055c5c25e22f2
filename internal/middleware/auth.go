package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
)

const (
	ContextClientID = "clientID"
)

// TokenVerifier resolves a signed questionnaire token to its client id.
type TokenVerifier interface {
	ClientID(token string) (string, error)
}

// QuestionnaireToken guards the public questionnaire routes. The token comes
// from ?token= (the link sent to the client) or an Authorization Bearer
// header. When the route has an :id it must match the token subject.
func QuestionnaireToken(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "missing_token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				abortUnauthorized(c, "invalid_authorization_header")
				return
			}
			tokenString = parts[1]
		}

		clientID, err := verifier.ClientID(tokenString)
		if err != nil {
			code := "invalid_token"
			var be httperr.BusinessError
			if errors.As(err, &be) {
				code = be.Code
			}
			abortUnauthorized(c, code)
			return
		}

		if id := c.Param("id"); id != "" && id != clientID {
			abortUnauthorized(c, "token_client_mismatch")
			return
		}

		c.Set(ContextClientID, clientID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
		Code:    code,
		Message: "Link inválido ou expirado.",
	})
}
