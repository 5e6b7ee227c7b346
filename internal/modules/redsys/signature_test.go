package redsys

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// Known-good vector produced with the gateway test credentials. If the
// canonical field order of MerchantParameters ever changes, this breaks first.
const (
	vectorSecret     = "sq7HjrUOBfKmC576ILgskD5srU870gJ7"
	vectorOrder      = "testreservat"
	vectorDerivedHex = "59d47c5db45bc1dff1acce367c80f575"
	vectorParamsB64  = "eyJEU19NRVJDSEFOVF9BTU9VTlQiOiIwMDAwMDAwMTgwMDAiLCJEU19NRVJDSEFOVF9PUkRFUiI6InRlc3RyZXNlcnZhdCIsIkRTX01FUkNIQU5UX01FUkNIQU5UQ09ERSI6IjM2NzUyOTI4NiIsIkRTX01FUkNIQU5UX0NVUlJFTkNZIjoiOTc4IiwiRFNfTUVSQ0hBTlRfVFJBTlNBQ1RJT05UWVBFIjoiMSIsIkRTX01FUkNIQU5UX1RFUk1JTkFMIjoiMSJ9"
	vectorSignature  = "12SSmvy5Ky6fYOsRwAF6kwuVWVrdrOdPi8ASNediwEc="
)

func vectorParams() MerchantParameters {
	return MerchantParameters{
		Amount:          "000000018000",
		Order:           vectorOrder,
		MerchantCode:    "367529286",
		Currency:        "978",
		TransactionType: "1",
		Terminal:        "1",
	}
}

func TestDeriveKey_Vector(t *testing.T) {
	s := NewSigner(vectorSecret)
	key, err := s.deriveKey(vectorOrder)
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	if got := hex.EncodeToString(key); got != vectorDerivedHex {
		t.Fatalf("derived key got %s want %s", got, vectorDerivedHex)
	}
}

func TestSign_Vector(t *testing.T) {
	_, b64, err := Serialize(vectorParams())
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if b64 != vectorParamsB64 {
		t.Fatalf("canonical base64 drifted:\ngot  %s\nwant %s", b64, vectorParamsB64)
	}

	s := NewSigner(vectorSecret)
	sig, err := s.Sign(vectorOrder, b64)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if sig != vectorSignature {
		t.Fatalf("signature got %s want %s", sig, vectorSignature)
	}

	// determinism: ikinci çağrı birebir aynı
	sig2, err := s.Sign(vectorOrder, b64)
	if err != nil {
		t.Fatalf("sign again: %v", err)
	}
	if sig2 != sig {
		t.Fatalf("sign is not deterministic: %s vs %s", sig2, sig)
	}
}

func TestSerialize_Stable(t *testing.T) {
	a, _, err := Serialize(vectorParams())
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	b, _, err := Serialize(vectorParams())
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("canonical json not stable:\n%s\n%s", a, b)
	}
	if strings.Contains(string(a), "MERCHANTURL") {
		t.Fatalf("empty optional fields must be omitted: %s", a)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	s := NewSigner(vectorSecret)
	if !s.Verify(vectorOrder, vectorParamsB64, vectorSignature) {
		t.Fatal("verify rejected a valid signature")
	}
}

func TestVerify_Tamper(t *testing.T) {
	s := NewSigner(vectorSecret)

	// her pozisyonda tek byte değiştir => reddetmeli
	flip := func(in string, i int) string {
		c := byte('A')
		if in[i] == c {
			c = 'B'
		}
		return in[:i] + string(c) + in[i+1:]
	}

	for i := 0; i < len(vectorParamsB64); i += 17 {
		if s.Verify(vectorOrder, flip(vectorParamsB64, i), vectorSignature) {
			t.Fatalf("verify accepted tampered params (byte %d)", i)
		}
	}
	for i := 0; i < len(vectorSignature)-2; i += 5 {
		if s.Verify(vectorOrder, vectorParamsB64, flip(vectorSignature, i)) {
			t.Fatalf("verify accepted tampered signature (byte %d)", i)
		}
	}
	if s.Verify("XXXXreservat", vectorParamsB64, vectorSignature) {
		t.Fatal("verify accepted wrong order code")
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		signer Signer
		sig    string
	}{
		{"secret not base64", NewSigner("not!!base64"), vectorSignature},
		{"secret wrong length", NewSigner("c2hvcnQ="), vectorSignature},
		{"claimed sig not base64", NewSigner(vectorSecret), "***"},
		{"empty secret", NewSigner(""), vectorSignature},
	}
	for _, tc := range cases {
		if tc.signer.Verify(vectorOrder, vectorParamsB64, tc.sig) {
			t.Fatalf("%s: verify must fail closed", tc.name)
		}
	}
}

func TestCheckSignature(t *testing.T) {
	s := NewSigner(vectorSecret)
	if err := s.CheckSignature(vectorOrder, vectorParamsB64, vectorSignature); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	err := s.CheckSignature("XXXXreservat", vectorParamsB64, vectorSignature)
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("got %v want ErrSignatureMismatch", err)
	}
}

func TestSignRequest(t *testing.T) {
	s := NewSigner(vectorSecret)
	req, err := s.SignRequest(vectorParams())
	if err != nil {
		t.Fatalf("sign request: %v", err)
	}
	if req.SignatureVersion != SignatureVersion {
		t.Fatalf("version got %s", req.SignatureVersion)
	}
	if req.MerchantParameters != vectorParamsB64 || req.Signature != vectorSignature {
		t.Fatalf("signed request does not match vector: %+v", req)
	}
}
