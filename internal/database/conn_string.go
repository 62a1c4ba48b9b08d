package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/Anish565/Cloud-Final-Project/internal/config"
)

// DefaultConnectTimeout is the libpq connect_timeout, in seconds.
const DefaultConnectTimeout = 10

// BuildConnString builds a PostgreSQL connection URL from config.
// User and password are escaped, so special characters are safe.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	port := cfg.Port
	if port == 0 {
		port = config.DefaultDBPort
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", strconv.Itoa(DefaultConnectTimeout))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
