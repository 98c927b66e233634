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
	testimonialIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateTestimonialFunc = CreateTestimonial
	ListTestimonialsFunc  = ListTestimonials
	UpdateTestimonialFunc = UpdateTestimonial
	DeleteTestimonialFunc = DeleteTestimonial
)

// ListTestimonials serves the public site, featured first.
func ListTestimonials(s *session.Session) (*[]Testimonial, error) {
	var records []Testimonial
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("featured DESC, create_time DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func CreateTestimonial(c *TestimonialCreation, s *session.Session) (*Testimonial, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}

	now := time.Now()
	record := Testimonial{ID: common.NextId(testimonialIdWorker), Name: c.Name, Company: c.Company,
		Role: c.Role, Quote: c.Quote, Rating: c.Rating, Featured: c.Featured,
		CreateTime: now, UpdateTime: now}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func UpdateTestimonial(id types.ID, c *TestimonialCreation, s *session.Session) (*Testimonial, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}

	var updated Testimonial
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := Testimonial{}
		if err := tx.Where(&Testimonial{ID: id}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		record.Name = c.Name
		record.Company = c.Company
		record.Role = c.Role
		record.Quote = c.Quote
		record.Rating = c.Rating
		record.Featured = c.Featured
		record.UpdateTime = time.Now()

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

func DeleteTestimonial(id types.ID, s *session.Session) error {
	if !s.Authenticated() {
		return bizerror.ErrUnauthenticated
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := Testimonial{}
		if err := tx.Where(&Testimonial{ID: id}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Delete(Testimonial{}, "id = ?", id).Error
	})
}
