package devapi

import (
	"errors"
	"fmt"
	"net/http"

	"devflow/internal/httperr"
	"devflow/internal/models"
	"devflow/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) registerAccounts(g *gin.RouterGroup) {
	g.GET("/load/:id", load[models.Account](s))
	g.POST("/create", create(s, createAccount))
	g.PUT("/update/:id", update(s, func(_ *gorm.DB, a *models.Account, in models.AccountUpdate) error {
		if in.Password == nil {
			return nil
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return err
		}
		a.Password = hash
		return nil
	}))
	g.DELETE("/delete/:id", remove[models.Account](s))
	g.POST("/provider", s.accountByProvider)
	g.POST("/sign-in-with-oauth", s.signInWithOAuth)
	g.POST("/sign-up-with-credentials", s.signUpWithCredentials)
	g.POST("/sign-in-with-credentials/", s.signInWithCredentials)
}

func createAccount(tx *gorm.DB, in models.AccountCreate) (*models.Account, error) {
	a := &models.Account{
		UserID:            in.UserID,
		Name:              in.Name,
		Image:             in.Image,
		Provider:          in.Provider,
		ProviderAccountID: in.ProviderAccountID,
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		a.Password = hash
	}
	return a, tx.Create(a).Error
}

func (s *Server) accountByProvider(c *gin.Context) {
	var in struct {
		Provider string `json:"provider"`
	}
	if !bind(c, &in) {
		return
	}
	var a models.Account
	if err := s.db.WithContext(c.Request.Context()).Where("provider_account_id = ?", in.Provider).First(&a).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// signInWithOAuth returns the linked account, creating the user and account on first
// sign-in. An existing user with the same email is linked rather than duplicated.
func (s *Server) signInWithOAuth(c *gin.Context) {
	var in models.SignInWithOAuth
	if !bind(c, &in) {
		return
	}

	var account models.Account
	err := s.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("provider = ? AND provider_account_id = ?", in.Provider, in.ProviderAccountID).First(&account).Error
		if err == nil {
			return tx.Model(&models.User{}).Where("id = ?", account.UserID).
				Updates(map[string]any{"name": in.User.Name, "image": in.User.Image}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var user models.User
		err = tx.Where("email = ?", in.User.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Name:     in.User.Name,
				Username: freeUsername(tx, utils.UsernameFrom(in.User.Username), in.ProviderAccountID),
				Email:    in.User.Email,
				Image:    in.User.Image,
			}
			err = tx.Create(&user).Error
		}
		if err != nil {
			return err
		}

		account = models.Account{
			UserID:            user.ID,
			Name:              in.User.Name,
			Image:             in.User.Image,
			Provider:          in.Provider,
			ProviderAccountID: in.ProviderAccountID,
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// freeUsername appends a suffix when username is taken.
func freeUsername(tx *gorm.DB, username, suffix string) string {
	var n int64
	tx.Model(&models.User{}).Where("username = ?", username).Count(&n)
	if n == 0 {
		return username
	}
	return utils.UsernameFrom(fmt.Sprintf("%s_%s", username, suffix))
}

func (s *Server) signUpWithCredentials(c *gin.Context) {
	var in models.SignUpWithCredentials
	if !bind(c, &in) {
		return
	}

	var account *models.Account
	err := s.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ? OR username = ?", in.Email, in.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return httperr.NewConflictError("User already exists")
		}

		user := models.User{Name: in.Name, Username: in.Username, Email: in.Email}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		var err error
		account, err = createAccount(tx, models.AccountCreate{
			UserID:            user.ID,
			Name:              in.Name,
			Provider:          models.ProviderCredentials,
			ProviderAccountID: in.Email,
			Password:          in.Password,
		})
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) signInWithCredentials(c *gin.Context) {
	var in models.SignInWithCredentials
	if !bind(c, &in) {
		return
	}

	var account models.Account
	err := s.db.WithContext(c.Request.Context()).
		Where("provider = ? AND provider_account_id = ?", models.ProviderCredentials, in.Email).
		First(&account).Error
	if err != nil {
		fail(c, err)
		return
	}
	if !utils.CheckPasswordHash(in.Password, account.Password) {
		fail(c, httperr.NewRequestError(http.StatusUnauthorized, "Invalid password"))
		return
	}
	c.JSON(http.StatusOK, account)
}
