package postgres_test

import (
	"testing"
	"time"

	userDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/user-backoffice/internal/users"
	usersPostgres "github.com/frahmantamala/user-backoffice/internal/users/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteUser struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Fullname     string    `gorm:"column:fullname;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	RoleID       int64     `gorm:"column:role_id"`
	MajorID      int64     `gorm:"column:major_id"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteRole struct {
	ID        int64     `gorm:"primaryKey"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteRole) TableName() string {
	return "roles"
}

type SQLiteMajor struct {
	ID        int64     `gorm:"primaryKey"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteMajor) TableName() string {
	return "majors"
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo users.Repository
	)

	newUser := func(username, email string) *userDatamodel.User {
		now := time.Now()
		return &userDatamodel.User{
			Username:     username,
			Email:        email,
			Fullname:     "Test User",
			PasswordHash: "hash",
			RoleID:       1,
			MajorID:      1,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRole{}, &SQLiteMajor{}, &SQLiteUser{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&SQLiteRole{ID: 1, Code: "ADMIN", Name: "Administrator", IsActive: true}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&SQLiteMajor{ID: 1, Code: "CS", Name: "Computer Science", IsActive: true}).Error).NotTo(HaveOccurred())

		repo = usersPostgres.NewUserRepository(db)
	})

	Describe("Create", func() {
		It("should create a new user successfully", func() {
			u := newUser("jdoe", "jdoe@example.com")

			err := repo.Create(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate username", func() {
			Expect(repo.Create(newUser("jdoe", "jdoe@example.com"))).NotTo(HaveOccurred())

			err := repo.Create(newUser("jdoe", "other@example.com"))
			Expect(err).To(Equal(users.ErrDuplicate))
		})

		It("should reject a duplicate email", func() {
			Expect(repo.Create(newUser("jdoe", "jdoe@example.com"))).NotTo(HaveOccurred())

			err := repo.Create(newUser("other", "jdoe@example.com"))
			Expect(err).To(Equal(users.ErrDuplicate))
		})

		It("should leave no row behind when the conflict check fires", func() {
			Expect(repo.Create(newUser("jdoe", "jdoe@example.com"))).NotTo(HaveOccurred())
			_ = repo.Create(newUser("jdoe", "second@example.com"))

			var count int64
			db.Model(&SQLiteUser{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			Expect(repo.Create(newUser("bravo", "bravo@example.com"))).NotTo(HaveOccurred())
			Expect(repo.Create(newUser("alpha", "alpha@example.com"))).NotTo(HaveOccurred())
		})

		It("should return every row ordered by id", func() {
			rows, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Username).To(Equal("bravo"))
			Expect(rows[1].Username).To(Equal("alpha"))
		})

		It("should resolve role and major associations", func() {
			rows, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Role).NotTo(BeNil())
			Expect(rows[0].Role.Code).To(Equal("ADMIN"))
			Expect(rows[0].Major).NotTo(BeNil())
			Expect(rows[0].Major.Code).To(Equal("CS"))
		})

		It("should include inactive users", func() {
			u := newUser("charlie", "charlie@example.com")
			u.IsActive = false
			Expect(repo.Create(u)).NotTo(HaveOccurred())

			rows, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
		})
	})

	Describe("GetByID", func() {
		var seeded *userDatamodel.User

		BeforeEach(func() {
			seeded = newUser("jdoe", "jdoe@example.com")
			Expect(repo.Create(seeded)).NotTo(HaveOccurred())
		})

		It("should retrieve an existing user", func() {
			row, err := repo.GetByID(seeded.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Username).To(Equal("jdoe"))
			Expect(row.Role.Name).To(Equal("Administrator"))
		})

		It("should return ErrNotFound for a missing id", func() {
			_, err := repo.GetByID(999)
			Expect(err).To(Equal(users.ErrNotFound))
		})
	})

	Describe("Update", func() {
		var first, second *userDatamodel.User

		BeforeEach(func() {
			first = newUser("jdoe", "jdoe@example.com")
			second = newUser("asmith", "asmith@example.com")
			Expect(repo.Create(first)).NotTo(HaveOccurred())
			Expect(repo.Create(second)).NotTo(HaveOccurred())
		})

		It("should overwrite the mutable columns", func() {
			first.Fullname = "John Q. Doe"
			first.IsActive = false
			first.UpdatedAt = time.Now()

			err := repo.Update(first)
			Expect(err).NotTo(HaveOccurred())

			row, err := repo.GetByID(first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Fullname).To(Equal("John Q. Doe"))
			Expect(row.IsActive).To(BeFalse())
		})

		It("should allow a user to keep their own username and email", func() {
			first.Fullname = "Renamed"
			err := repo.Update(first)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject taking another user's username", func() {
			first.Username = "asmith"

			err := repo.Update(first)
			Expect(err).To(Equal(users.ErrDuplicate))

			row, _ := repo.GetByID(first.ID)
			Expect(row.Username).To(Equal("jdoe"))
		})

		It("should reject taking another user's email", func() {
			first.Email = "asmith@example.com"

			err := repo.Update(first)
			Expect(err).To(Equal(users.ErrDuplicate))
		})
	})

	Describe("Delete", func() {
		var seeded *userDatamodel.User

		BeforeEach(func() {
			seeded = newUser("jdoe", "jdoe@example.com")
			Expect(repo.Create(seeded)).NotTo(HaveOccurred())
		})

		It("should hard delete the row", func() {
			err := repo.Delete(seeded.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.GetByID(seeded.ID)
			Expect(err).To(Equal(users.ErrNotFound))
		})

		It("should free the username for reuse", func() {
			Expect(repo.Delete(seeded.ID)).NotTo(HaveOccurred())

			err := repo.Create(newUser("jdoe", "jdoe@example.com"))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("UpdatePassword", func() {
		var seeded *userDatamodel.User

		BeforeEach(func() {
			seeded = newUser("jdoe", "jdoe@example.com")
			Expect(repo.Create(seeded)).NotTo(HaveOccurred())
		})

		It("should replace only the hash", func() {
			err := repo.UpdatePassword(seeded.ID, "newhash")
			Expect(err).NotTo(HaveOccurred())

			row, err := repo.GetByID(seeded.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.PasswordHash).To(Equal("newhash"))
			Expect(row.Username).To(Equal("jdoe"))
		})

		It("should bump updated_at", func() {
			before, _ := repo.GetByID(seeded.ID)
			time.Sleep(10 * time.Millisecond)

			Expect(repo.UpdatePassword(seeded.ID, "newhash")).NotTo(HaveOccurred())

			after, _ := repo.GetByID(seeded.ID)
			Expect(after.UpdatedAt).To(BeTemporally(">", before.UpdatedAt))
		})
	})
})
