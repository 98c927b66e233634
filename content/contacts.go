package content

import (
	"errors"
	"time"

	"nextvision/bizerror"
	"nextvision/common"
	"nextvision/domain"
	"nextvision/persistence"
	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	contactIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	SubmitContactFunc       = SubmitContact
	ListContactsFunc        = ListContacts
	UpdateContactStatusFunc = UpdateContactStatus
	DeleteContactFunc       = DeleteContact
)

// SubmitContact accepts a public submission; no principal required.
func SubmitContact(c *ContactCreation, s *session.Session) (*ContactSubmission, error) {
	record := ContactSubmission{ID: common.NextId(contactIdWorker), Name: c.Name, Email: c.Email,
		Company: c.Company, Message: c.Message, Status: ContactStatusNew, CreateTime: time.Now()}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func ListContacts(s *session.Session) (*[]ContactSubmission, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}

	var records []ContactSubmission
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("create_time DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func UpdateContactStatus(id types.ID, u *ContactStatusUpdating, s *session.Session) (*ContactSubmission, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	if !u.Status.IsValid() {
		return nil, bizerror.BadParam("status", "unknown status '"+string(u.Status)+"'")
	}

	var updated ContactSubmission
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := ContactSubmission{}
		if err := tx.Where(&ContactSubmission{ID: id}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		record.Status = u.Status
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeleteContact(id types.ID, s *session.Session) error {
	if !s.Authenticated() {
		return bizerror.ErrUnauthenticated
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := ContactSubmission{}
		if err := tx.Where(&ContactSubmission{ID: id}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Delete(ContactSubmission{}, "id = ?", id).Error
	})
}
