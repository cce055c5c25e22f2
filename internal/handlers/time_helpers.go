package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// --------------------------------------------------
// Períodos de consulta no timezone do estúdio
// --------------------------------------------------

// periodFromQuery reads the optional ?from= and ?to= dates (YYYY-MM-DD).
// The returned range is [from, to+1d); a missing bound stays zero.
func periodFromQuery(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	var from, to time.Time

	if s := c.Query("from"); s != "" {
		d, err := timezone.ParseDate(s, loc)
		if err != nil {
			return from, to, false
		}
		from = d
	}

	if s := c.Query("to"); s != "" {
		d, err := timezone.ParseDate(s, loc)
		if err != nil {
			return from, to, false
		}
		to = d.AddDate(0, 0, 1)
	}

	return from, to, true
}
