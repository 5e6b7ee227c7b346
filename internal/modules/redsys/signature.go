package redsys

import (
	"crypto/des"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SignatureVersion is the constant the gateway expects alongside every
// signed request and notification.
const SignatureVersion = "HMAC_SHA256_V1"

// SignedRequest is the outbound redirect payload: the three form fields the
// browser POSTs to the gateway.
type SignedRequest struct {
	SignatureVersion   string `json:"Ds_SignatureVersion"`
	MerchantParameters string `json:"Ds_MerchantParameters"`
	Signature          string `json:"Ds_Signature"`
}

// Signer, merchant secret üzerinden imza üretir/doğrular. Stateless, her
// goroutine'den güvenle çağrılır.
type Signer struct {
	secretKeyBase64 string
}

func NewSigner(secretKeyBase64 string) Signer {
	return Signer{secretKeyBase64: secretKeyBase64}
}

// deriveKey encrypts the order code with the merchant secret using 3-key
// Triple DES in ECB mode and returns the raw ciphertext as the per-order HMAC
// key. ECB here is mandated by the gateway protocol; this is key derivation,
// not confidentiality, and no other code may use this mode. Order code bytes
// are zero-padded to the 8-byte block boundary, matching the gateway kits.
func (s Signer) deriveKey(orderCode string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(s.secretKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSecretKey, err)
	}
	if len(secret) != 24 {
		return nil, fmt.Errorf("%w: got %d bytes, want 24", ErrBadSecretKey, len(secret))
	}

	block, err := des.NewTripleDESCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSecretKey, err)
	}

	plain := []byte(orderCode)
	if rem := len(plain) % des.BlockSize; rem != 0 {
		plain = append(plain, make([]byte, des.BlockSize-rem)...)
	}

	out := make([]byte, len(plain))
	for i := 0; i < len(plain); i += des.BlockSize {
		block.Encrypt(out[i:i+des.BlockSize], plain[i:i+des.BlockSize])
	}
	return out, nil
}

// Serialize produces the canonical JSON bytes of a parameter set and their
// standard-base64 encoding. Canonical form = struct field order of
// MerchantParameters; producer and verifier share this single rule.
func Serialize(p MerchantParameters) ([]byte, string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, "", err
	}
	return raw, base64.StdEncoding.EncodeToString(raw), nil
}

// Sign computes HMAC-SHA256 over the UTF-8 bytes of base64Params, keyed with
// the key derived from orderCode, and returns the standard-base64 digest.
// Deterministik: aynı girdi her zaman aynı imza.
func (s Signer) Sign(orderCode, base64Params string) (string, error) {
	key, err := s.deriveKey(orderCode)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(base64Params))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the signature over the exact bytes received and compares
// in constant time. Fails closed: herhangi bir decode/derive hatası = false,
// asla panic/exception yolu yok.
func (s Signer) Verify(orderCode, base64Params, claimedSignature string) bool {
	expected, err := s.Sign(orderCode, base64Params)
	if err != nil {
		return false
	}
	claimed, err := base64.StdEncoding.DecodeString(claimedSignature)
	if err != nil {
		return false
	}
	expectedRaw, err := base64.StdEncoding.DecodeString(expected)
	if err != nil {
		return false
	}
	return hmac.Equal(expectedRaw, claimed)
}

// CheckSignature is Verify for callers that branch on errors.Is: a failed
// verification comes back as ErrSignatureMismatch.
func (s Signer) CheckSignature(orderCode, base64Params, claimedSignature string) error {
	if s.Verify(orderCode, base64Params, claimedSignature) {
		return nil
	}
	return ErrSignatureMismatch
}

// SignRequest serializes p and signs it with the order code embedded in p,
// producing the redirect form payload.
func (s Signer) SignRequest(p MerchantParameters) (SignedRequest, error) {
	_, b64, err := Serialize(p)
	if err != nil {
		return SignedRequest{}, err
	}
	sig, err := s.Sign(p.Order, b64)
	if err != nil {
		return SignedRequest{}, err
	}
	return SignedRequest{
		SignatureVersion:   SignatureVersion,
		MerchantParameters: b64,
		Signature:          sig,
	}, nil
}
