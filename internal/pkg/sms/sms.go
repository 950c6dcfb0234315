package sms

import "log"

// Verifier sends and checks one-time login codes for client phone login.
type Verifier interface {
	SendCode(phone string) error
	CheckCode(phone, code string) bool
}

// StubVerifier accepts a single fixed code. It stands in until an SMS
// gateway is contracted; the fixed code keeps local and staging flows
// usable without external calls.
type StubVerifier struct {
	Code string
}

// NewStubVerifier returns the stub with the default code.
func NewStubVerifier() *StubVerifier {
	return &StubVerifier{Code: "123456"}
}

func (v *StubVerifier) SendCode(phone string) error {
	log.Printf("[SMS] código de verificação solicitado para %s (stub)", phone)
	return nil
}

func (v *StubVerifier) CheckCode(phone, code string) bool {
	return code != "" && code == v.Code
}
