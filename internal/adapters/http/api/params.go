package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
)

// parsePage reads pageNumber and pageSize from the query, applying the
// configured default and cap.
func parsePage(q url.Values, limits PageLimits) (page.Request, error) {
	pg := page.Request{Number: 0, Size: limits.DefaultSize}

	if raw := q.Get("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page.Request{}, fmt.Errorf("%w: pageNumber", ErrBadParam)
		}
		pg.Number = n
	}
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page.Request{}, fmt.Errorf("%w: pageSize", ErrBadParam)
		}
		pg.Size = n
	}
	if limits.MaxSize > 0 && pg.Size > limits.MaxSize {
		pg.Size = limits.MaxSize
	}
	return pg, nil
}

// parseScoreCriteria reads the optional score filters from the query.
// Absent parameters contribute no constraint.
func parseScoreCriteria(q url.Values) (criteria.ScoreCriteria, error) {
	var crit criteria.ScoreCriteria

	if raw := q.Get("from"); raw != "" {
		dt, err := model.ParseDateTime(raw)
		if err != nil {
			return crit, fmt.Errorf("%w: from", ErrBadParam)
		}
		crit.From = &dt.Time
	}
	if raw := q.Get("to"); raw != "" {
		dt, err := model.ParseDateTime(raw)
		if err != nil {
			return crit, fmt.Errorf("%w: to", ErrBadParam)
		}
		crit.To = &dt.Time
	}
	if raw := q.Get("routineId"); raw != "" {
		crit.RoutineID = &raw
	}
	if raw := q.Get("userId"); raw != "" {
		crit.UserID = &raw
	}
	if raw := q.Get("cushionLimit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return crit, fmt.Errorf("%w: cushionLimit", ErrBadParam)
		}
		crit.CushionLimit = &n
	}
	if raw := q.Get("colours"); raw != "" {
		crit.Colours = &raw
	}
	if raw := q.Get("numBalls"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return crit, fmt.Errorf("%w: numBalls", ErrBadParam)
		}
		crit.NumBalls = &n
	}
	if raw := q.Get("loop"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return crit, fmt.Errorf("%w: loop", ErrBadParam)
		}
		crit.Loop = &b
	}
	return crit, nil
}

// parseTags collects the tags filter. Both repeated parameters and
// comma-separated values are accepted.
func parseTags(q url.Values) []string {
	var tags []string
	for _, raw := range q["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
