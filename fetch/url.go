package fetch

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// ParseURL splits an http URL into the arguments of Get. The port defaults to
// 80 and the path to "/". The query string is kept in path.
func ParseURL(raw string) (host string, port uint16, path string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, "", errors.Wrapf(err, "parse url %q", raw)
	}
	if u.Scheme != "http" {
		return "", 0, "", errors.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}

	host = u.Hostname()
	if host == "" {
		return "", 0, "", errors.Errorf("missing host in %q", raw)
	}

	port = 80
	if p := u.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil || n == 0 {
			return "", 0, "", errors.Errorf("invalid port %q in %q", p, raw)
		}
		port = uint16(n)
	}

	path = u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return host, port, path, nil
}
