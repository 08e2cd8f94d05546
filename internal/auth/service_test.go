package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	byEmail map[string]*employeeDatamodel.User
	byID    map[int64]*employeeDatamodel.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byEmail: make(map[string]*employeeDatamodel.User),
		byID:    make(map[int64]*employeeDatamodel.User),
	}
}

func (m *mockUserRepository) add(user *employeeDatamodel.User) {
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
}

func (m *mockUserRepository) GetByEmail(email string) (*employeeDatamodel.User, error) {
	return m.byEmail[email], nil
}

func (m *mockUserRepository) GetByID(id int64) (*employeeDatamodel.User, error) {
	return m.byID[id], nil
}

var _ = Describe("Auth Service", func() {
	var (
		users    *mockUserRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		users = newMockUserRepository()
		tokenGen = auth.NewJWTTokenGenerator("test-secret", 15*time.Minute)
		service = auth.NewService(users, tokenGen, bcrypt.MinCost, logger)

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())
		users.add(&employeeDatamodel.User{
			ID:           1,
			TenantID:     1,
			Email:        "jonas@cafesonne.de",
			PasswordHash: string(hash),
			Role:         auth.RoleStaff,
		})
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jonas@cafesonne.de", Password: "password"})
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
			Expect(tokens.AccessToken).ToNot(Equal(tokens.RefreshToken))

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(1)))
			Expect(claims.TenantID).To(Equal(int64(1)))
			Expect(claims.Role).To(Equal(auth.RoleStaff))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "jonas@cafesonne.de", Password: "nope"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "who@cafesonne.de", Password: "password"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a refresh token for a fresh pair", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jonas@cafesonne.de", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(renewed.AccessToken).ToNot(BeEmpty())
		})

		It("rejects an access token on the refresh path", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jonas@cafesonne.de", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RefreshTokens(tokens.AccessToken)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("picks up a role change on refresh", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jonas@cafesonne.de", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			users.byID[1].Role = auth.RoleManager

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.Role).To(Equal(auth.RoleManager))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("rejects a refresh token on the access path", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jonas@cafesonne.de", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(tokens.RefreshToken)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("rejects an expired token", func() {
			expiredGen := &auth.JWTTokenGenerator{
				Secret:          []byte("test-secret"),
				AccessTokenTTL:  -time.Minute,
				RefreshTokenTTL: -time.Minute,
			}
			token, err := expiredGen.GenerateAccessToken(1, 1, "jonas@cafesonne.de", auth.RoleStaff)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("rejects a token signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator("other-secret", 15*time.Minute)
			token, err := otherGen.GenerateAccessToken(1, 1, "jonas@cafesonne.de", auth.RoleStaff)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})

var _ = Describe("Permissions", func() {
	It("grants managerial actions to manager, tenant_admin and zono_admin", func() {
		for _, role := range []string{auth.RoleManager, auth.RoleTenantAdmin, auth.RoleZonoAdmin} {
			Expect(auth.Can(role, auth.ActionShiftManage)).To(BeTrue(), role)
			Expect(auth.Can(role, auth.ActionSwapApprove)).To(BeTrue(), role)
			Expect(auth.Can(role, auth.ActionMarkAbsent)).To(BeTrue(), role)
		}
	})

	It("denies managerial actions to staff, rider and kitchen", func() {
		for _, role := range []string{auth.RoleStaff, auth.RoleRider, auth.RoleKitchen} {
			Expect(auth.Can(role, auth.ActionShiftManage)).To(BeFalse(), role)
			Expect(auth.Can(role, auth.ActionAttendanceEdit)).To(BeFalse(), role)
			Expect(auth.Can(role, auth.ActionInventoryManage)).To(BeFalse(), role)
		}
	})

	It("restricts employee management to admins", func() {
		Expect(auth.Can(auth.RoleManager, auth.ActionEmployeeManage)).To(BeFalse())
		Expect(auth.Can(auth.RoleTenantAdmin, auth.ActionEmployeeManage)).To(BeTrue())
		Expect(auth.Can(auth.RoleZonoAdmin, auth.ActionEmployeeManage)).To(BeTrue())
	})

	It("restricts tenant management to the platform admin", func() {
		Expect(auth.Can(auth.RoleTenantAdmin, auth.ActionTenantManage)).To(BeFalse())
		Expect(auth.Can(auth.RoleZonoAdmin, auth.ActionTenantManage)).To(BeTrue())
	})

	It("denies unknown actions outright", func() {
		Expect(auth.Can(auth.RoleZonoAdmin, "shift.fly")).To(BeFalse())
	})

	It("reports managerial roles", func() {
		Expect(auth.IsManagerial(auth.RoleManager)).To(BeTrue())
		Expect(auth.IsManagerial(auth.RoleStaff)).To(BeFalse())
	})
})
