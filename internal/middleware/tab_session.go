package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// tabQueryParam is the query parameter that carries the per-browser-tab
// correlation token. The value is client-minted and never validated; the
// server only requires its presence.
const tabQueryParam = "tab"

// tabExemptPrefixes lists paths that never require a tab identifier
var tabExemptPrefixes = []string{
	"/auth",
	"/admin",
	"/static",
}

// TabSession intercepts authenticated requests that lack a tab identifier
// and answers with a bootstrap page whose script mints one per browser tab
// and reloads the URL with it attached. The application keeps one auth
// session per browser profile but distinguishes tabs through this token so
// each tab can hold independent in-progress bill forms. The token carries
// no authority and no server-side state exists for it.
//
// The decision is terminal in one step: either the request passes through
// unchanged or the response is fully replaced by the bootstrap page. The
// middleware itself cannot fail a request.
func TabSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, authenticated := c.Get("userID"); !authenticated {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range tabExemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Presence alone is sufficient; the value is not inspected
		if c.Request.URL.Query().Has(tabQueryParam) {
			c.Next()
			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, tabBootstrapPage(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// tabBootstrapPage renders the interception page. The script reuses the id
// stored in sessionStorage (scoped per browser tab, so a reload keeps it
// while a new tab mints a fresh one), attaches it as the tab query parameter
// and replaces the location so the bootstrap hop leaves no history entry.
// On any script failure it degrades to reloading the original URL unchanged.
func tabBootstrapPage(currentURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Loading…</title></head>
<body>
<script>
  (function() {
    try {
      var tid = sessionStorage.getItem('tab_id');
      if (!tid) {
        // Simple UUIDv4 generator
        tid = 'xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx'.replace(/[xy]/g, function(c) {
          var r = Math.random()*16|0, v = c == 'x' ? r : (r&0x3|0x8);
          return v.toString(16);
        });
        sessionStorage.setItem('tab_id', tid);
      }
      var url = new URL(window.location.href);
      url.searchParams.set('tab', tid);
      window.location.replace(url.toString());
    } catch(e) {
      window.location.replace(%q);
    }
  })();
</script>
</body></html>
`, currentURL)
}
