package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	"spkwork/bizerror"
	"spkwork/idgen"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

const (
	RoleAdmin  = "admin"
	RoleMandor = "mandor"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc = CreateUser
	QueryUsersFunc = QueryUsers
)

type User struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	Name     string   `json:"name" gorm:"unique_index"`
	Nickname string   `json:"nickname"`
	Secret   string   `json:"-"`
	Role     string   `json:"role"`

	CreateTime types.Timestamp `json:"createTime"`
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Role     string   `json:"role"`
}

type UserCreation struct {
	Name     string `json:"name" binding:"required"`
	Nickname string `json:"nickname"`
	Secret   string `json:"secret" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin mandor"`
}

func HashSha256(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func CreateUser(c *UserCreation, sec *session.Context) (*UserInfo, error) {
	if !sec.HasRole(RoleAdmin) {
		return nil, bizerror.ErrForbidden
	}
	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Nickname: c.Nickname,
		Secret: HashSha256(c.Secret), Role: c.Role, CreateTime: types.CurrentTimestamp()}
	if err := persistence.ActiveDataSourceManager.GormDB(nil).Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, Role: user.Role}, nil
}

func QueryUsers(sec *session.Context) (*[]UserInfo, error) {
	var users []UserInfo
	if err := persistence.ActiveDataSourceManager.GormDB(nil).Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

// BootstrapSuperAdmin ensures an admin account exists on startup.
// ADMIN_NAME / ADMIN_SECRET override the defaults.
func BootstrapSuperAdmin() error {
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "admin"
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

	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		secret = "admin123"
		logrus.Warn("ADMIN_SECRET is not set, super admin created with the default secret")
	}
	user = User{ID: idgen.NextID(userIdWorker), Name: name, Nickname: "Super Admin",
		Secret: HashSha256(secret), Role: RoleAdmin, CreateTime: types.CurrentTimestamp()}
	return db.Create(&user).Error
}
