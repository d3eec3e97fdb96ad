package passwords_test

import (
	"testing"

	"github.com/frahmantamala/user-backoffice/internal/passwords"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPasswords(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Passwords Suite")
}

var _ = Describe("Generate", func() {
	It("should produce passwords of the fixed length", func() {
		password, err := passwords.Generate()
		Expect(err).NotTo(HaveOccurred())
		Expect(password).To(HaveLen(passwords.GeneratedLength))
	})

	It("should only use alphanumeric characters", func() {
		password, err := passwords.Generate()
		Expect(err).NotTo(HaveOccurred())
		Expect(password).To(MatchRegexp(`^[a-zA-Z0-9]+$`))
	})

	It("should not repeat across calls", func() {
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			password, err := passwords.Generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(seen[password]).To(BeFalse())
			seen[password] = true
		}
	})
})

var _ = Describe("Hasher", func() {
	var hasher *passwords.Hasher

	BeforeEach(func() {
		hasher = passwords.NewHasher(4)
	})

	It("should verify the plaintext it hashed", func() {
		hash, err := hasher.Hash("some-secret")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("some-secret"))
		Expect(hasher.Verify(hash, "some-secret")).To(BeTrue())
	})

	It("should reject the wrong plaintext", func() {
		hash, err := hasher.Hash("some-secret")
		Expect(err).NotTo(HaveOccurred())
		Expect(hasher.Verify(hash, "other-secret")).To(BeFalse())
	})

	It("should salt each hash", func() {
		first, err := hasher.Hash("some-secret")
		Expect(err).NotTo(HaveOccurred())
		second, err := hasher.Hash("some-secret")
		Expect(err).NotTo(HaveOccurred())
		Expect(first).NotTo(Equal(second))
	})

	It("should fall back to the default cost for out-of-range values", func() {
		odd := passwords.NewHasher(99)
		hash, err := odd.Hash("some-secret")
		Expect(err).NotTo(HaveOccurred())
		Expect(odd.Verify(hash, "some-secret")).To(BeTrue())
	})
})
