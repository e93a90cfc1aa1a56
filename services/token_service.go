package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// TokenService issues Agora AccessToken v006 credentials for joining a
// media channel. The encoding is bit-exact against Agora's verifier:
//
//	token   = "006" + appID + base64(content)
//	content = len16(signature) + crc32(channel) + crc32(uidStr) + len16(m)
//	m       = salt + tokenExpiry + count(1) + kind(1) + privilegeExpiry
//
// All integers little-endian, all length prefixes uint16 byte counts.
// signature = HMAC-SHA256 over appID+channel+uidStr+m, keyed by the app
// certificate. uidStr is the decimal uid, empty when uid is 0 ("assign
// on join").
type TokenService struct {
	AppID          string
	AppCertificate string
}

const (
	tokenVersion         = "006"
	privilegeJoinChannel = uint16(1)

	tokenLifetime     = 24 * time.Hour
	privilegeLifetime = time.Hour
)

// NewTokenServiceFromEnv reads the Agora credentials from the
// environment. Both may be empty; see Secured.
func NewTokenServiceFromEnv() *TokenService {
	return &TokenService{
		AppID:          os.Getenv("AGORA_APP_ID"),
		AppCertificate: os.Getenv("AGORA_APP_CERTIFICATE"),
	}
}

// Secured reports whether signed tokens can be issued. Without a
// certificate the project runs in Agora's unsecured test mode and
// clients join with an empty token.
func (ts *TokenService) Secured() bool {
	return ts.AppID != "" && ts.AppCertificate != ""
}

// BuildToken issues a token for the channel/uid pair, or an empty
// string in unsecured mode. The salt only decorrelates signatures for
// identical inputs; it carries no uniqueness guarantee.
func (ts *TokenService) BuildToken(channelName string, uid uint32) string {
	if !ts.Secured() {
		return ""
	}
	return ts.buildTokenAt(channelName, uid, rand.Uint32(), time.Now())
}

func (ts *TokenService) buildTokenAt(channelName string, uid uint32, salt uint32, now time.Time) string {
	tokenExpiry := uint32(now.Unix()) + uint32(tokenLifetime/time.Second)
	privilegeExpiry := uint32(now.Unix()) + uint32(privilegeLifetime/time.Second)

	var m []byte
	m = binary.LittleEndian.AppendUint32(m, salt)
	m = binary.LittleEndian.AppendUint32(m, tokenExpiry)
	m = binary.LittleEndian.AppendUint16(m, 1) // privilege count
	m = binary.LittleEndian.AppendUint16(m, privilegeJoinChannel)
	m = binary.LittleEndian.AppendUint32(m, privilegeExpiry)

	uidStr := ""
	if uid != 0 {
		uidStr = strconv.FormatUint(uint64(uid), 10)
	}

	// Signing input is the raw concatenation, no separators.
	mac := hmac.New(sha256.New, []byte(ts.AppCertificate))
	mac.Write([]byte(ts.AppID))
	mac.Write([]byte(channelName))
	mac.Write([]byte(uidStr))
	mac.Write(m)
	signature := mac.Sum(nil)

	content := make([]byte, 0, 2+len(signature)+8+2+len(m))
	content = appendLengthPrefixed(content, signature)
	content = binary.LittleEndian.AppendUint32(content, crc32.ChecksumIEEE([]byte(channelName)))
	content = binary.LittleEndian.AppendUint32(content, crc32.ChecksumIEEE([]byte(uidStr)))
	content = appendLengthPrefixed(content, m)

	return tokenVersion + ts.AppID + base64.StdEncoding.EncodeToString(content)
}

func appendLengthPrefixed(buf, payload []byte) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(payload)))
	return append(buf, payload...)
}
