package tokens_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/user-backoffice/internal/tokens"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTokens(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tokens Suite")
}

const testSecret = "a-reset-secret-of-at-least-32-chars!"

var _ = Describe("ResetTokenManager", func() {
	var manager *tokens.ResetTokenManager

	BeforeEach(func() {
		manager = tokens.NewResetTokenManager(testSecret, time.Hour)
	})

	Describe("Issue and Verify", func() {
		It("should round-trip the user identity", func() {
			token, err := manager.Issue(42, "jdoe@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			claims, err := manager.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(42)))
			Expect(claims.Email).To(Equal("jdoe@example.com"))
		})

		It("should verify the same token repeatedly", func() {
			token, err := manager.Issue(42, "jdoe@example.com")
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 3; i++ {
				_, err := manager.Verify(token)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should set the expiry from the configured ttl", func() {
			token, err := manager.Issue(42, "jdoe@example.com")
			Expect(err).NotTo(HaveOccurred())

			claims, err := manager.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.ExpiresAt.Time).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))
		})

		It("should default a non-positive ttl to 24 hours", func() {
			defaulted := tokens.NewResetTokenManager(testSecret, 0)

			token, err := defaulted.Issue(42, "jdoe@example.com")
			Expect(err).NotTo(HaveOccurred())

			claims, err := defaulted.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.ExpiresAt.Time).To(BeTemporally("~", time.Now().Add(24*time.Hour), 5*time.Second))
		})
	})

	Describe("Verify failures", func() {
		It("should reject garbage input", func() {
			_, err := manager.Verify("not-a-token")
			Expect(err).To(Equal(tokens.ErrInvalidToken))
		})

		It("should reject a token signed with a different secret", func() {
			other := tokens.NewResetTokenManager("a-different-secret-of-32-characters!", time.Hour)
			token, err := other.Issue(42, "jdoe@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = manager.Verify(token)
			Expect(err).To(Equal(tokens.ErrInvalidToken))
		})

		It("should reject an expired token with the expired error", func() {
			claims := &tokens.ResetClaims{
				UserID: 42,
				Email:  "jdoe@example.com",
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
					IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			Expect(err).NotTo(HaveOccurred())

			_, err = manager.Verify(token)
			Expect(err).To(Equal(tokens.ErrTokenExpired))
		})

		It("should reject a token signed with a non-HMAC method", func() {
			claims := &tokens.ResetClaims{
				UserID: 42,
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
			Expect(err).NotTo(HaveOccurred())

			_, err = manager.Verify(token)
			Expect(err).To(Equal(tokens.ErrInvalidToken))
		})
	})
})
