package devapi

import (
	"net/http"

	"devflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerUsers(g *gin.RouterGroup) {
	g.GET("/load/:id", load[models.User](s))
	g.POST("/create", create(s, func(tx *gorm.DB, in models.UserCreate) (*models.User, error) {
		u := &models.User{Name: in.Name, Username: in.Username, Email: in.Email, Image: in.Image}
		return u, tx.Create(u).Error
	}))
	g.PUT("/update/:id", update(s, func(_ *gorm.DB, u *models.User, in models.UserUpdate) error {
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Image != nil {
			u.Image = *in.Image
		}
		if in.Bio != nil {
			u.Bio = in.Bio
		}
		if in.Location != nil {
			u.Location = in.Location
		}
		if in.Portfolio != nil {
			u.Portfolio = in.Portfolio
		}
		return nil
	}))
	g.DELETE("/delete/:id", remove[models.User](s))
	g.POST("/email", s.userBy("email"))
	g.POST("/username", s.userBy("username"))
	g.GET("/", s.listUsers)
}

// userBy looks a user up by the body field of the same name as column.
func (s *Server) userBy(column string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in map[string]string
		if !bind(c, &in) {
			return
		}
		var u models.User
		if err := s.db.WithContext(c.Request.Context()).Where(column+" = ?", in[column]).First(&u).Error; err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// listUsers orders by filter: newest (default), oldest or popular.
func (s *Server) listUsers(c *gin.Context) {
	p := pageOf(c)
	listPage[models.User](c, p, func() *gorm.DB {
		q := s.db.WithContext(c.Request.Context()).Model(&models.User{})
		if p.query != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
				p.like(), p.like(), p.like())
		}
		switch p.filter {
		case "oldest":
			return q.Order("created_at ASC")
		case "popular":
			return q.Order("reputation DESC").Order("created_at DESC")
		default:
			return q.Order("created_at DESC")
		}
	})
}
