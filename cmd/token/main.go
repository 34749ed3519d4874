// Command token mints an access token for the API, for operators and
// integration tooling. The subject names the calling system.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/paiero-app/paiero-backend-go/internal/config"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/jwt"
)

func main() {
	subject := flag.String("subject", "ops", "token subject (calling system)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := jwtService.GenerateAccessToken(*subject)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
