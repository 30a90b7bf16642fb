package gateway

import "strings"

// upiAppMap maps user-facing app names to PhonePe target app codes.
var upiAppMap = map[string]string{
	"phonepe":   "PHONEPE",
	"googlepay": "GOOGLEPAY",
	"paytm":     "PAYTM",
	"bhim":      "BHIM",
}

// resolveUPITarget turns the checkout's UPI selection into a target app
// code plus optional VPA. Input is either a bare app name ("phonepe") or
// a VPA ("name@paytm"); anything unrecognized falls back to "ALL",
// letting the payer pick any UPI app.
func resolveUPITarget(target string) (app string, vpa string) {
	app = "ALL"
	if target == "" {
		return app, ""
	}

	if strings.Contains(target, "@") {
		vpa = target
		parts := strings.SplitN(target, "@", 2)
		if code, ok := upiAppMap[strings.ToLower(parts[1])]; ok {
			app = code
		}
		return app, vpa
	}

	if code, ok := upiAppMap[strings.ToLower(target)]; ok {
		app = code
	}
	return app, ""
}
