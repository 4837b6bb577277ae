package validation

import (
	"testing"

	"github.com/alignwork/api/internal/platform/apperr"
)

func TestDigits(t *testing.T) {
	cases := map[string]string{
		"123.456.789-09": "12345678909",
		"(81) 99999-000": "8199999000",
		"01310-100":      "01310100",
		"":               "",
		"abc":            "",
	}
	for in, want := range cases {
		if got := Digits(in); got != want {
			t.Errorf("Digits(%q) = %q, want %q", in, got, want)
		}
	}
}

type cpfHolder struct {
	CPF string `json:"cpf" validate:"cpf"`
}

func TestCPFRule(t *testing.T) {
	valid := []string{"123.456.789-09", "12345678909"}
	for _, v := range valid {
		if err := Struct(cpfHolder{CPF: v}); err != nil {
			t.Errorf("cpf %q rejected: %v", v, err)
		}
	}

	invalid := []string{"1234567890", "123456789012", "111.111.111-11", "11111111111", ""}
	for _, v := range invalid {
		if err := Struct(cpfHolder{CPF: v}); err == nil {
			t.Errorf("cpf %q accepted", v)
		}
	}
}

type ufHolder struct {
	Estado string `json:"estado" validate:"uf"`
}

func TestUFRule(t *testing.T) {
	for _, v := range []string{"PE", "sp", " RJ "} {
		if err := Struct(ufHolder{Estado: v}); err != nil {
			t.Errorf("uf %q rejected: %v", v, err)
		}
	}
	for _, v := range []string{"XX", "S", "SAO", ""} {
		if err := Struct(ufHolder{Estado: v}); err == nil {
			t.Errorf("uf %q accepted", v)
		}
	}
	if len(BrazilUFs) != 27 {
		t.Errorf("BrazilUFs has %d entries, want 27", len(BrazilUFs))
	}
}

type cepHolder struct {
	CEP string `json:"cep" validate:"cep"`
}

func TestCEPRule(t *testing.T) {
	for _, v := range []string{"01310-100", "01310100"} {
		if err := Struct(cepHolder{CEP: v}); err != nil {
			t.Errorf("cep %q rejected: %v", v, err)
		}
	}
	for _, v := range []string{"0131010", "013101000", ""} {
		if err := Struct(cepHolder{CEP: v}); err == nil {
			t.Errorf("cep %q accepted", v)
		}
	}
}

type phoneHolder struct {
	Phone string `json:"phone" validate:"digits_min=10"`
}

func TestDigitsMinRule(t *testing.T) {
	if err := Struct(phoneHolder{Phone: "(81) 3333-4444"}); err != nil {
		t.Errorf("masked 10-digit phone rejected: %v", err)
	}
	if err := Struct(phoneHolder{Phone: "333-4444"}); err == nil {
		t.Error("7-digit phone accepted")
	}
}

func TestStructReportsJSONFieldAndCode(t *testing.T) {
	err := Struct(cpfHolder{CPF: "123"})
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation apperr", err)
	}
	if len(e.Fields) != 1 {
		t.Fatalf("fields = %+v, want one entry", e.Fields)
	}
	if e.Fields[0].Field != "cpf" || e.Fields[0].Code != "cpf" {
		t.Errorf("field entry = %+v", e.Fields[0])
	}
}
