package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"removal-backend/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads the static reference catalogs (users across every role and the
// removal-reason list) and two example requests when the database is empty.
// Running it against a populated database is a no-op.
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to inspect users table: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := []model.User{
		{ID: uuid.New(), Name: "John Doe", Department: "IT", Role: model.RoleEmployee, Email: "john@z.com", Password: string(hash)},
		{ID: uuid.New(), Name: "Jane Smith", Department: "IT", Role: model.RoleHOD, Email: "jane@z.com", Password: string(hash)},
		{ID: uuid.New(), Name: "Mike Johnson", Department: "FINANCE", Role: model.RoleFinance, Email: "mike@z.com", Password: string(hash)},
		{ID: uuid.New(), Name: "Sarah Williams", Department: "MANAGEMENT", Role: model.RoleMOD, Email: "sarah@z.com", Password: string(hash)},
		{ID: uuid.New(), Name: "David Brown", Department: "SECURITY", Role: model.RoleSecurity, Email: "david@z.com", Password: string(hash)},
		{ID: uuid.New(), Name: "Emily Davis", Department: "HR", Role: model.RoleEmployee, Email: "emily@z.com", Password: string(hash)},
		{ID: uuid.New(), Name: "Admin User", Department: "MANAGEMENT", Role: model.RoleAdmin, Email: "admin@z.com", Password: string(hash)},
	}

	reasons := []model.RemovalReason{
		{ID: "personal_use", Name: "Personal Use"},
		{ID: "repair", Name: "Repair"},
		{ID: "transfer", Name: "Transfer to Another Department"},
		{ID: "disposal", Name: "Disposal"},
		{ID: "sale", Name: "Sale"},
		{ID: model.ReasonOtherID, Name: "Other"},
	}

	now := time.Now()
	weekFromNow := now.Add(7 * 24 * time.Hour)

	// Example requests: one returnable transfer fresh at the HOD gate, one
	// non-returnable disposal already past HOD.
	first := model.RemovalRequest{
		ID:               uuid.New(),
		UserID:           users[0].ID,
		UserName:         users[0].Name,
		Department:       users[0].Department,
		Term:             model.TermReturnable,
		DateFrom:         now,
		DateTo:           &weekFromNow,
		TargetDepartment: "HR",
		ItemDescription:  "Dell Laptop XPS 15",
		RemovalReasonID:  "transfer",
		Status:           model.StatusPendingHOD,
		CreatedAt:        now.Add(-2 * 24 * time.Hour),
		UpdatedAt:        now.Add(-2 * 24 * time.Hour),
		Images: []model.RequestImage{
			{ID: uuid.New(), URL: "https://picsum.photos/id/0/200/300", CreatedAt: now.Add(-2 * 24 * time.Hour)},
		},
	}

	second := model.RemovalRequest{
		ID:              uuid.New(),
		UserID:          users[5].ID,
		UserName:        users[5].Name,
		Department:      users[5].Department,
		Term:            model.TermNonReturnable,
		DateFrom:        now,
		Employee:        "Sarah Johnson",
		ItemDescription: "Office Chair",
		RemovalReasonID: "disposal",
		Status:          model.StatusPendingFinance,
		CreatedAt:       now.Add(-3 * 24 * time.Hour),
		UpdatedAt:       now.Add(-1 * 24 * time.Hour),
		Images: []model.RequestImage{
			{ID: uuid.New(), URL: "https://picsum.photos/id/1/200/300", CreatedAt: now.Add(-3 * 24 * time.Hour)},
			{ID: uuid.New(), URL: "https://picsum.photos/id/2/200/300", CreatedAt: now.Add(-3 * 24 * time.Hour)},
		},
		Approvals: []model.Approval{
			{
				ID:         uuid.New(),
				Seq:        1,
				Stage:      model.StageHOD,
				Approved:   true,
				Signature:  "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAASwAAACWCAYAAABkW7XSAAAA",
				ApprovedBy: users[1].Name,
				Timestamp:  now.Add(-1 * 24 * time.Hour),
			},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if err := tx.Create(&reasons).Error; err != nil {
			return fmt.Errorf("failed to seed removal reasons: %w", err)
		}
		if err := tx.Create(&first).Error; err != nil {
			return fmt.Errorf("failed to seed example request: %w", err)
		}
		if err := tx.Create(&second).Error; err != nil {
			return fmt.Errorf("failed to seed example request: %w", err)
		}
		log.Printf("Seeded %d users, %d removal reasons and 2 example requests", len(users), len(reasons))
		return nil
	})
}
