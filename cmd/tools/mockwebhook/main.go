package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/redsys"
)

// Redsys'in INBOUND bildirimini taklit eder: aynı imza yolu (3DES türetme +
// HMAC) kullanılır ki webhook ucu gerçek trafikle birebir test edilsin.
func main() {
	endpoint := flag.String("url", "http://localhost:8080/webhooks/redsys", "Webhook URL")
	secret := flag.String("secret", os.Getenv("REDSYS_SECRET_KEY"), "Merchant secret (base64, 24 bytes)")
	order := flag.String("order", "", "Order code (12 chars, required)")
	response := flag.String("response", "0000", "Ds_Response (0000 = authorised, 0180 = declined, 0900 = confirmation)")
	amount := flag.Int64("amount", 5000, "Amount in cents")
	currency := flag.String("currency", "978", "ISO 4217 numeric currency")
	authCode := flag.String("auth-code", "123456", "Ds_AuthorisationCode")
	tamper := flag.Bool("tamper", false, "Corrupt the signature before sending")
	dryRun := flag.Bool("dry-run", false, "Only print the form, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and REDSYS_SECRET_KEY not set\n")
		os.Exit(1)
	}
	if !redsys.ValidOrderCode(*order) {
		fmt.Fprintf(os.Stderr, "Error: -order must be a 12-char alphanumeric order code\n")
		os.Exit(1)
	}

	now := time.Now()
	payload := redsys.Notification{
		Date:              now.Format("02/01/2006"),
		Hour:              now.Format("15:04"),
		Amount:            fmt.Sprintf("%012d", *amount),
		Currency:          *currency,
		Order:             *order,
		MerchantCode:      os.Getenv("REDSYS_MERCHANT_CODE"),
		Terminal:          "1",
		Response:          *response,
		AuthorisationCode: *authCode,
		TransactionType:   string(redsys.OpAuthorize),
		SecurePayment:     "1",
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}
	params := base64.StdEncoding.EncodeToString(raw)

	signer := redsys.NewSigner(*secret)
	sig, err := signer.Sign(*order, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing: %v\n", err)
		os.Exit(1)
	}
	if *tamper {
		sig = flipFirst(sig)
	}

	form := url.Values{}
	form.Set("Ds_SignatureVersion", redsys.SignatureVersion)
	form.Set("Ds_MerchantParameters", params)
	form.Set("Ds_Signature", sig)

	fmt.Printf("Ds_MerchantParameters: %s\n", params)
	fmt.Printf("Ds_Signature: %s\n", sig)

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *endpoint)
	resp, err := http.PostForm(*endpoint, form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func flipFirst(sig string) string {
	if sig == "" {
		return sig
	}
	c := "A"
	if strings.HasPrefix(sig, "A") {
		c = "B"
	}
	return c + sig[1:]
}
