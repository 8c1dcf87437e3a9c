package routes

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"blogserver/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func listTitles(blogs []BlogOut) []string {
	titles := make([]string, 0, len(blogs))
	for _, b := range blogs {
		titles = append(titles, b.Title)
	}
	return titles
}

func TestListBlogsView(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "alice", "alice@example.com", "pw", true)
	parent := env.createCategory(t, "Tech", nil)
	child := env.createCategory(t, "Go", &parent.ID)
	tag := env.createTag(t, "tutorial")

	env.createBlog(t, "With category", author, &child, date(2024, 3, 10), tag)
	env.createBlog(t, "Without category", author, nil, date(2024, 3, 9))

	resp := env.request(t, http.MethodGet, "/blogs/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body BlogListResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Blogs, 2)
	assert.Equal(t, 2, body.Total)

	first := body.Blogs[0]
	assert.Equal(t, "With category", first.Title)
	assert.Equal(t, "2024-03-10", first.CreatedAt)
	assert.Equal(t, "alice", first.Author.Username)
	require.Len(t, first.Tags, 1)
	assert.Equal(t, "tutorial", first.Tags[0].Title)
	require.NotNil(t, first.Category)
	assert.Equal(t, "Go", first.Category.Title)
	require.NotNil(t, first.Category.Parent)
	assert.Equal(t, parent.ID, *first.Category.Parent)

	assert.Nil(t, body.Blogs[1].Category)
}

func TestListBlogsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "alice", "alice@example.com", "pw", true)
	env.createBlog(t, "oldest", author, nil, date(2024, 1, 1))
	env.createBlog(t, "newest", author, nil, date(2024, 3, 1))
	env.createBlog(t, "middle", author, nil, date(2024, 2, 1))

	resp := env.request(t, http.MethodGet, "/blogs/", nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)

	assert.Equal(t, []string{"newest", "middle", "oldest"}, listTitles(body.Blogs))
}

func TestListBlogsDateRangeInclusive(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "alice", "alice@example.com", "pw", true)
	env.createBlog(t, "jan 1", author, nil, date(2024, 1, 1))
	env.createBlog(t, "jan 31", author, nil, date(2024, 1, 31))
	env.createBlog(t, "feb 1", author, nil, date(2024, 2, 1))

	resp := env.request(t, http.MethodGet, "/blogs/?start_date=2024-01-01&end_date=2024-01-31", nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)
	assert.ElementsMatch(t, []string{"jan 1", "jan 31"}, listTitles(body.Blogs))
	assert.Equal(t, 2, body.Total)

	// One-sided bounds
	resp = env.request(t, http.MethodGet, "/blogs/?start_date=2024-01-31", nil, "")
	decodeBody(t, resp, &body)
	assert.ElementsMatch(t, []string{"jan 31", "feb 1"}, listTitles(body.Blogs))

	resp = env.request(t, http.MethodGet, "/blogs/?end_date=2024-01-01", nil, "")
	decodeBody(t, resp, &body)
	assert.ElementsMatch(t, []string{"jan 1"}, listTitles(body.Blogs))
}

func TestListBlogsAuthorFilter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com", "pw", true)
	bob := env.createUser(t, "bob", "bob@example.com", "pw", true)
	env.createBlog(t, "by alice", alice, nil, date(2024, 1, 1))
	env.createBlog(t, "by bob", bob, nil, date(2024, 1, 2))

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/blogs/?author_id=%d", bob.ID), nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"by bob"}, listTitles(body.Blogs))
}

func TestListBlogsTagFilterDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "alice", "alice@example.com", "pw", true)
	t1 := env.createTag(t, "go")
	t2 := env.createTag(t, "web")
	t3 := env.createTag(t, "other")

	env.createBlog(t, "both tags", author, nil, date(2024, 1, 1), t1, t2)
	env.createBlog(t, "one tag", author, nil, date(2024, 1, 2), t2)
	env.createBlog(t, "other tag", author, nil, date(2024, 1, 3), t3)
	env.createBlog(t, "no tags", author, nil, date(2024, 1, 4))

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/blogs/?tag_ids=%d,%d", t1.ID, t2.ID), nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)

	// A blog matching both tags appears exactly once
	assert.ElementsMatch(t, []string{"both tags", "one tag"}, listTitles(body.Blogs))
	assert.Equal(t, 2, body.Total)
}

func TestListBlogsCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "alice", "alice@example.com", "pw", true)
	tech := env.createCategory(t, "Tech", nil)
	life := env.createCategory(t, "Life", nil)
	misc := env.createCategory(t, "Misc", nil)

	env.createBlog(t, "tech post", author, &tech, date(2024, 1, 1))
	env.createBlog(t, "life post", author, &life, date(2024, 1, 2))
	env.createBlog(t, "misc post", author, &misc, date(2024, 1, 3))
	env.createBlog(t, "uncategorized", author, nil, date(2024, 1, 4))

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/blogs/?category_ids=%d,%d", tech.ID, life.ID), nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)
	assert.ElementsMatch(t, []string{"tech post", "life post"}, listTitles(body.Blogs))
}

func TestListBlogsCombinedFilters(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com", "pw", true)
	bob := env.createUser(t, "bob", "bob@example.com", "pw", true)
	tag := env.createTag(t, "go")

	env.createBlog(t, "match", alice, nil, date(2024, 1, 15), tag)
	env.createBlog(t, "wrong author", bob, nil, date(2024, 1, 15), tag)
	env.createBlog(t, "wrong date", alice, nil, date(2024, 3, 15), tag)
	env.createBlog(t, "wrong tag", alice, nil, date(2024, 1, 15))

	path := fmt.Sprintf("/blogs/?author_id=%d&tag_ids=%d&start_date=2024-01-01&end_date=2024-01-31", alice.ID, tag.ID)
	resp := env.request(t, http.MethodGet, path, nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"match"}, listTitles(body.Blogs))
}

func TestListBlogsPagination(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "alice", "alice@example.com", "pw", true)
	for day := 1; day <= 5; day++ {
		env.createBlog(t, fmt.Sprintf("post %d", day), author, nil, date(2024, 1, day))
	}

	resp := env.request(t, http.MethodGet, "/blogs/?limit=2&skip=1", nil, "")
	var body BlogListResponse
	decodeBody(t, resp, &body)

	assert.Equal(t, 5, body.Total)
	assert.Equal(t, 1, body.Skip)
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, []string{"post 4", "post 3"}, listTitles(body.Blogs))
}

func TestListBlogsBadFilter(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/blogs/?start_date=not-a-date",
		"/blogs/?tag_ids=1,x",
		"/blogs/?author_id=abc",
	} {
		resp := env.request(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestCreateBlogRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/blogs/", BlogCreateRequest{Title: "x", CategoryID: 1}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	var count int64
	env.db.Model(&models.Blog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateBlogCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com", "pw", true)
	token := env.accessToken(t, user.ID)

	resp := env.request(t, http.MethodPost, "/blogs/", BlogCreateRequest{
		Title:      "x",
		CategoryID: 999,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Category not found.", bodyMessage(t, resp))
}

func TestCreateBlog(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com", "pw", true)
	category := env.createCategory(t, "Tech", nil)
	t1 := env.createTag(t, "go")
	t2 := env.createTag(t, "web")
	token := env.accessToken(t, user.ID)

	resp := env.request(t, http.MethodPost, "/blogs/", BlogCreateRequest{
		Title:       "Hello",
		Description: "<p>rich text</p>",
		Picture:     "/uploads/blog_pictures/x.png",
		CategoryID:  category.ID,
		Tags:        []uint{t1.ID, t2.ID},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
		BlogID  uint   `json:"blog_id"`
	}
	decodeBody(t, resp, &body)
	require.NotZero(t, body.BlogID)

	var blog models.Blog
	require.NoError(t, env.db.Preload("Tags").First(&blog, body.BlogID).Error)
	assert.Equal(t, user.ID, blog.AuthorID)
	require.NotNil(t, blog.CategoryID)
	assert.Equal(t, category.ID, *blog.CategoryID)
	assert.Equal(t, "/uploads/blog_pictures/x.png", blog.Picture)
	assert.True(t, blog.Active)
	assert.Len(t, blog.Tags, 2)
}

func TestDeleteBlogNotAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com", "pw", true)
	bob := env.createUser(t, "bob", "bob@example.com", "pw", true)
	blog := env.createBlog(t, "alice's post", alice, nil, date(2024, 1, 1))

	resp := env.request(t, http.MethodDelete, fmt.Sprintf("/blog/%d/", blog.ID), nil, env.accessToken(t, bob.ID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You are not the author of this blog post.", bodyMessage(t, resp))

	var count int64
	env.db.Model(&models.Blog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteBlogAsAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com", "pw", true)
	blog := env.createBlog(t, "alice's post", alice, nil, date(2024, 1, 1))
	comment := models.Comment{BlogID: blog.ID, AuthorID: alice.ID, Content: "hi"}
	require.NoError(t, env.db.Create(&comment).Error)

	resp := env.request(t, http.MethodDelete, fmt.Sprintf("/blog/%d/", blog.ID), nil, env.accessToken(t, alice.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var blogs, comments int64
	env.db.Model(&models.Blog{}).Count(&blogs)
	env.db.Model(&models.Comment{}).Count(&comments)
	assert.Equal(t, int64(0), blogs)
	assert.Equal(t, int64(0), comments)
}

func TestDeleteBlogNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com", "pw", true)

	resp := env.request(t, http.MethodDelete, "/blog/12345/", nil, env.accessToken(t, alice.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteBlogRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com", "pw", true)
	blog := env.createBlog(t, "alice's post", alice, nil, date(2024, 1, 1))

	resp := env.request(t, http.MethodDelete, fmt.Sprintf("/blog/%d/", blog.ID), nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	var count int64
	env.db.Model(&models.Blog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
