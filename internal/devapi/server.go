// Package devapi is a local stand-in for the resource API under /api/v1. It serves
// development and integration tests only; the action layer still treats the backend
// as opaque.
package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"devflow/internal/httperr"
	"devflow/internal/logger"
	"devflow/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Server struct {
	db     *gorm.DB
	ranker *Ranker
}

func New(db *gorm.DB) *Server {
	return &Server{db: db, ranker: NewRanker(db)}
}

// Ranker is the hot-score worker; callers start it with Run.
func (s *Server) Ranker() *Ranker {
	return s.ranker
}

// Engine returns a gin engine serving every route.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	s.Register(r.Group("/api/v1"))
	return r
}

func (s *Server) Register(g *gin.RouterGroup) {
	s.registerQuestions(g.Group("/question"))
	s.registerAnswers(g.Group("/answer"))
	s.registerTags(g.Group("/tag"))
	s.registerVotes(g.Group("/vote"))
	s.registerAccounts(g.Group("/account"))
	s.registerUsers(g.Group("/user"))
	s.registerCollections(g.Group("/user_collection"))
}

// fail writes the {"detail": ...} error shape.
func fail(c *gin.Context, err error) {
	status := httperr.StatusOf(err)
	message := err.Error()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		status, message = http.StatusConflict, "Already exists"
	case status == 0:
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.L().Error("devapi request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

func bind(c *gin.Context, p any) bool {
	if err := c.ShouldBindJSON(p); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return false
	}
	return true
}

func id(c *gin.Context, name string) int64 {
	return utils.ParseID(c.Param(name))
}

type pageQuery struct {
	page   int
	size   int
	query  string
	filter string
}

func pageOf(c *gin.Context) pageQuery {
	p := pageQuery{page: 1, size: defaultPageSize, query: c.Query("query"), filter: c.Query("filter")}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 {
		p.size = min(v, maxPageSize)
	}
	return p
}

// like is a case-insensitive LIKE pattern that works on postgres and SQLite.
func (p pageQuery) like() string {
	return "%" + p.query + "%"
}

// listPage counts and fetches one page. base must build a fresh query each call;
// preloads apply to the fetch only.
func listPage[T any](c *gin.Context, p pageQuery, base func() *gorm.DB, preload ...string) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		fail(c, err)
		return
	}
	q := base()
	for _, name := range preload {
		q = q.Preload(name)
	}
	items := []T{}
	if err := q.Offset((p.page - 1) * p.size).Limit(p.size).Find(&items).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// load responds with the row of type T at path parameter "id".
func load[T any](s *Server, preload ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var out T
		q := s.db.WithContext(c.Request.Context())
		for _, p := range preload {
			q = q.Preload(p)
		}
		if err := q.First(&out, id(c, "id")).Error; err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func remove[T any](s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := s.db.WithContext(c.Request.Context()).Delete(new(T), id(c, "id"))
		if res.Error != nil {
			fail(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, gorm.ErrRecordNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// update loads T, applies the bound U inside a transaction and saves the row.
func update[T, U any](s *Server, apply func(tx *gorm.DB, row *T, in U) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in U
		if !bind(c, &in) {
			return
		}
		var row T
		err := s.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&row, id(c, "id")).Error; err != nil {
				return err
			}
			if err := apply(tx, &row, in); err != nil {
				return err
			}
			return tx.Save(&row).Error
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// create builds a row from the bound C inside a transaction.
func create[T, C any](s *Server, build func(tx *gorm.DB, in C) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in C
		if !bind(c, &in) {
			return
		}
		var row *T
		err := s.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			row, err = build(tx, in)
			return err
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}
