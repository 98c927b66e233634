package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"nextvision/bizerror"
	"nextvision/common"
	"nextvision/persistence"
	"nextvision/session"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	VerifyCredentialsFunc = VerifyCredentials
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// VerifyCredentials resolves a login to an identity and role, or
// ErrUnauthenticated on any mismatch.
func VerifyCredentials(name, secret string, s *session.Session) (*session.Identity, string, error) {
	var ctx = s.Context
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where(&User{Name: name, Secret: HashSha256(secret)}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", bizerror.ErrUnauthenticated
		}
		return nil, "", err
	}
	return &session.Identity{ID: user.ID, Name: user.Name, Nickname: user.Nickname}, user.Role, nil
}

func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	if s.Role != RoleAdmin {
		return nil, bizerror.ErrForbidden
	}

	role := c.Role
	if role == "" {
		role = RoleEditor
	}
	user := User{ID: common.NextId(userIdWorker), Name: c.Name, Nickname: c.Nickname,
		Secret: HashSha256(c.Secret), Role: role, CreateTime: time.Now()}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, Role: user.Role}, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	if !s.Authenticated() {
		return bizerror.ErrUnauthenticated
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	user := User{}
	if err := db.Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrInvalidPassword
		}
		return err
	}

	return db.Model(&User{}).Where(&User{ID: s.Identity.ID}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

// SeedAdminUser creates the bootstrap admin account when absent.
func SeedAdminUser(name, secret string) error {
	if name == "" || secret == "" {
		return nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	user := User{}
	err := db.Where(&User{Name: name}).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user = User{ID: common.NextId(userIdWorker), Name: name, Nickname: name,
		Secret: HashSha256(secret), Role: RoleAdmin, CreateTime: time.Now()}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	logrus.Infof("admin user %s seeded", name)
	return nil
}
