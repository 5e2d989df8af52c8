// cmd/main.go
package main

import (
	"secure-auth-api/app"

	_ "secure-auth-api/docs"
)

// @title           Secure-Auth API
// @version         1.0
// @description     Session-authentication service with rotating refresh tokens.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
