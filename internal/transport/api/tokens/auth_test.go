package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokensTestSuite struct {
	suite.Suite
	key []byte
}

func TestTokensSuite(t *testing.T) {
	suite.Run(t, new(TokensTestSuite))
}

func (s *TokensTestSuite) SetupTest() {
	s.key = []byte("super secret key")
}

func (s *TokensTestSuite) TestRoundTrip() {
	token, err := GenerateUserJWT(42, RoleAdmin, time.Hour, s.key)
	s.Require().NoError(err)

	claims, validateErr := ValidateUserJWT(token, s.key)
	s.Require().NoError(validateErr)
	s.Equal(int64(42), claims.ID)
	s.True(claims.IsAdmin())
}

func (s *TokensTestSuite) TestRejects() {
	expired, err := GenerateUserJWT(1, RoleUser, -time.Minute, s.key)
	s.Require().NoError(err)
	_, expiredErr := ValidateUserJWT(expired, s.key)
	s.Require().ErrorIs(expiredErr, ErrTokenExpired)

	foreign, foreignErr := GenerateUserJWT(1, RoleUser, time.Hour, []byte("another key"))
	s.Require().NoError(foreignErr)
	_, signatureErr := ValidateUserJWT(foreign, s.key)
	s.Require().Error(signatureErr)

	anonymous, anonErr := GenerateUserJWT(0, RoleUser, time.Hour, s.key)
	s.Require().NoError(anonErr)
	_, claimsErr := ValidateUserJWT(anonymous, s.key)
	s.Require().Error(claimsErr)
}
