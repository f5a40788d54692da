package app

import (
	"context"
	"errors"
	"strings"

	"goforum/internal/model"
	"goforum/internal/pkg/pagination"
	"goforum/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSubforumNotFound = errors.New("subforum not found")
	ErrThreadNotFound   = errors.New("thread not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrEmptyQuery       = errors.New("search query is required")
)

// ListingCache holds rendered category-list pages. Implementations must
// be safe for concurrent use; a nil cache disables caching.
type ListingCache interface {
	GetCategoryPage(ctx context.Context, page, limit int) (*CategoryPage, bool, error)
	SetCategoryPage(ctx context.Context, page, limit int, value *CategoryPage) error
	Invalidate(ctx context.Context) error
}

type ForumService struct {
	categoryRepo *repository.CategoryRepository
	subforumRepo *repository.SubforumRepository
	threadRepo   *repository.ThreadRepository
	postRepo     *repository.PostRepository
	cache        ListingCache
}

func NewForumService(
	categoryRepo *repository.CategoryRepository,
	subforumRepo *repository.SubforumRepository,
	threadRepo *repository.ThreadRepository,
	postRepo *repository.PostRepository,
	cache ListingCache,
) *ForumService {
	return &ForumService{
		categoryRepo: categoryRepo,
		subforumRepo: subforumRepo,
		threadRepo:   threadRepo,
		postRepo:     postRepo,
		cache:        cache,
	}
}

type CategoryPage struct {
	Categories []model.Category `json:"categories"`
	pagination.Envelope
}

type SubforumPage struct {
	Subforums []model.Subforum `json:"subforums"`
	pagination.Envelope
}

// SubforumDetail merges the subforum's own fields with one page of its
// threads, newest first.
type SubforumDetail struct {
	model.Subforum
	Threads []model.Thread `json:"threads"`
	pagination.Envelope
}

// ThreadDetail merges the thread (with author) with one page of its
// posts, oldest first.
type ThreadDetail struct {
	model.Thread
	Posts []model.Post `json:"posts"`
	pagination.Envelope
}

// SearchResult carries two independently paged lists sharing one outer
// envelope. Totals are the sum of the two match counts.
type SearchResult struct {
	Threads []model.Thread `json:"threads"`
	Posts   []model.Post   `json:"posts"`
	pagination.Envelope
}

func (s *ForumService) ListCategories(ctx context.Context, p pagination.Params) (*CategoryPage, error) {
	p = p.Normalize()

	if s.cache != nil {
		if cached, ok, err := s.cache.GetCategoryPage(ctx, p.Page, p.Limit); err == nil && ok {
			return cached, nil
		}
	}

	categories, total, err := s.categoryRepo.List(p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}

	result := &CategoryPage{
		Categories: categories,
		Envelope:   pagination.NewEnvelope(p, total),
	}

	if s.cache != nil {
		// Best effort: a cache write failure never fails the request.
		_ = s.cache.SetCategoryPage(ctx, p.Page, p.Limit, result)
	}
	return result, nil
}

func (s *ForumService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

type CreateCategoryInput struct {
	Name        string
	Description string
}

func (s *ForumService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*model.Category, error) {
	category := &model.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Subforums:   []model.Subforum{},
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return category, nil
}

type CreateSubforumInput struct {
	Name        string
	Description string
	CategoryID  uint
}

func (s *ForumService) CreateSubforum(ctx context.Context, input CreateSubforumInput) (*model.Subforum, error) {
	exists, err := s.categoryRepo.Exists(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	subforum := &model.Subforum{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CategoryID:  input.CategoryID,
	}
	if err := s.subforumRepo.Create(subforum); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return subforum, nil
}

func (s *ForumService) GetSubforum(id uint, p pagination.Params) (*SubforumDetail, error) {
	p = p.Normalize()

	subforum, err := s.subforumRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if subforum == nil {
		return nil, ErrSubforumNotFound
	}

	threads, total, err := s.threadRepo.ListBySubforum(id, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	if threads == nil {
		threads = []model.Thread{}
	}

	return &SubforumDetail{
		Subforum: *subforum,
		Threads:  threads,
		Envelope: pagination.NewEnvelope(p, total),
	}, nil
}

func (s *ForumService) GetSubforumsByCategory(categoryID uint, p pagination.Params) (*SubforumPage, error) {
	p = p.Normalize()

	exists, err := s.categoryRepo.Exists(categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	subforums, total, err := s.subforumRepo.ListByCategory(categoryID, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	if subforums == nil {
		subforums = []model.Subforum{}
	}

	return &SubforumPage{
		Subforums: subforums,
		Envelope:  pagination.NewEnvelope(p, total),
	}, nil
}

type CreateThreadInput struct {
	Title      string
	Content    string
	SubforumID uint
	AuthorID   uint
}

// CreateThread creates the thread together with its initial post. The
// post reuses the thread content and author.
func (s *ForumService) CreateThread(input CreateThreadInput) (*model.Thread, error) {
	subforum, err := s.subforumRepo.GetByID(input.SubforumID)
	if err != nil {
		return nil, err
	}
	if subforum == nil {
		return nil, ErrSubforumNotFound
	}

	thread := &model.Thread{
		Title:      strings.TrimSpace(input.Title),
		SubforumID: input.SubforumID,
		AuthorID:   input.AuthorID,
	}
	if _, err := s.threadRepo.CreateWithInitialPost(thread, input.Content); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *ForumService) GetThread(id uint, p pagination.Params) (*ThreadDetail, error) {
	p = p.Normalize()

	thread, err := s.threadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	posts, total, err := s.postRepo.ListByThread(id, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return &ThreadDetail{
		Thread:   *thread,
		Posts:    posts,
		Envelope: pagination.NewEnvelope(p, total),
	}, nil
}

// DeleteThread removes the thread and all of its posts. Allowed for the
// thread's author and for admins.
func (s *ForumService) DeleteThread(id uint, actor *model.User) error {
	thread, err := s.threadRepo.GetByID(id)
	if err != nil {
		return err
	}
	if thread == nil {
		return ErrThreadNotFound
	}

	if thread.AuthorID != actor.ID && !actor.IsAdmin {
		return ErrNotAuthorized
	}
	return s.threadRepo.DeleteWithPosts(id)
}

type CreatePostInput struct {
	Content  string
	ThreadID uint
	AuthorID uint
}

func (s *ForumService) CreatePost(input CreatePostInput) (*model.Post, error) {
	thread, err := s.threadRepo.GetByID(input.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	post := &model.Post{
		Content:  input.Content,
		ThreadID: input.ThreadID,
		AuthorID: input.AuthorID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost is author-only. Admins get no override here, unlike thread
// deletion.
func (s *ForumService) UpdatePost(id uint, content string, actor *model.User) (*model.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if post.AuthorID != actor.ID {
		return nil, ErrNotAuthorized
	}

	post.Content = content
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ForumService) DeletePost(id uint, actor *model.User) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	if post.AuthorID != actor.ID {
		return ErrNotAuthorized
	}
	return s.postRepo.Delete(id)
}

// Search matches the query substring against thread titles and post
// contents independently. Both lists use the same page/limit; the
// envelope totals are computed from the sum of the two counts.
func (s *ForumService) Search(query string, p pagination.Params) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	p = p.Normalize()

	threads, threadTotal, err := s.threadRepo.SearchByTitle(query, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	posts, postTotal, err := s.postRepo.SearchByContent(query, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	if threads == nil {
		threads = []model.Thread{}
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return &SearchResult{
		Threads:  threads,
		Posts:    posts,
		Envelope: pagination.NewEnvelope(p, threadTotal+postTotal),
	}, nil
}

func (s *ForumService) invalidateListings(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
