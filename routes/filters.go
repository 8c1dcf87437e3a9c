package routes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BlogFilters is the explicit filter specification for the blog listing.
// A zero field imposes no restriction; set fields are combined with AND.
type BlogFilters struct {
	StartDate   *time.Time
	EndDate     *time.Time
	AuthorID    uint
	TagIDs      []uint
	CategoryIDs []uint
}

const dateLayout = "2006-01-02"

// blogFiltersFromQuery parses the listing query parameters. Dates are
// YYYY-MM-DD, id lists are comma separated.
func blogFiltersFromQuery(c *fiber.Ctx) (BlogFilters, error) {
	var f BlogFilters

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, fmt.Errorf("invalid start_date %q", raw)
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, fmt.Errorf("invalid end_date %q", raw)
		}
		f.EndDate = &t
	}
	if raw := c.Query("author_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid author_id %q", raw)
		}
		f.AuthorID = uint(id)
	}

	var err error
	if f.TagIDs, err = parseIDList(c.Query("tag_ids"), "tag_ids"); err != nil {
		return f, err
	}
	if f.CategoryIDs, err = parseIDList(c.Query("category_ids"), "category_ids"); err != nil {
		return f, err
	}
	return f, nil
}

func parseIDList(raw, name string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", name, p)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// applyBlogFilters translates a BlogFilters into query conditions on blogs.
// Date bounds are inclusive; the end bound is pushed to end of day so a
// date-only value covers the whole day. The tag condition uses an IN
// subquery over the join table, which matches blogs with any of the given
// tags and cannot duplicate rows. The category condition matches the blog's
// single category against the supplied list.
func applyBlogFilters(q *gorm.DB, f BlogFilters) *gorm.DB {
	if f.StartDate != nil && f.EndDate != nil {
		q = q.Where("blogs.created_at >= ? AND blogs.created_at <= ?", *f.StartDate, endOfDay(*f.EndDate))
	} else if f.StartDate != nil {
		q = q.Where("blogs.created_at >= ?", *f.StartDate)
	} else if f.EndDate != nil {
		q = q.Where("blogs.created_at <= ?", endOfDay(*f.EndDate))
	}

	if f.AuthorID != 0 {
		q = q.Where("blogs.author_id = ?", f.AuthorID)
	}

	if len(f.TagIDs) > 0 {
		q = q.Where("blogs.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).
				Table("blog_tags").
				Select("blog_id").
				Where("tag_id IN ?", f.TagIDs))
	}

	if len(f.CategoryIDs) > 0 {
		q = q.Where("blogs.category_id IN ?", f.CategoryIDs)
	}

	return q
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
