package schema

import (
	"strings"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	s := validSchema()
	s.Services[0].Operations[0].ReturnType.FetchBy = "SIMPLE_FETCHER"
	s.Services[0].Operations[0].ReturnType.FetcherOwner = ParseTypeName("com.example.TreeService")
	s.Services[0].Operations[0].ExceptionTypeNames = []TypeName{ParseTypeName("com.example.NotFound")}
	s.AddDefinition(&TypeDefinition{
		TypeName:      ParseTypeName("com.example.Color"),
		Kind:          KindEnum,
		EnumConstants: []*EnumConstant{{Name: "RED", Doc: ParseDoc("Red color")}},
	})

	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	for _, want := range []string{
		`"typeName": "com.example.TreeService"`,
		`"kind": "data"`,
		`"kind": "enum"`,
		`"fetchBy": "SIMPLE_FETCHER"`,
		`"summary": "Red color"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded schema missing %s:\n%s", want, data)
		}
	}
	if strings.Contains(string(data), `"fetcherOwner": ""`) {
		t.Error("zero fetcher owner should be omitted")
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	op := decoded.Services[0].Operations[0]
	if op.ReturnType.FetcherOwner != ParseTypeName("com.example.TreeService") {
		t.Errorf("FetcherOwner = %v", op.ReturnType.FetcherOwner)
	}
	if op.ExceptionTypeNames[0] != ParseTypeName("com.example.NotFound") {
		t.Errorf("ExceptionTypeNames = %v", op.ExceptionTypeNames)
	}
	if decoded.Definitions[1].Kind != KindEnum {
		t.Errorf("Kind = %v", decoded.Definitions[1].Kind)
	}
}

func TestTypeVariableRoundTrip(t *testing.T) {
	v := ParseTypeName("com.example.Page").WithTypeVariable("E")
	text, _ := v.MarshalText()

	var got TypeName
	if err := got.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("round trip = %#v, want %#v", got, v)
	}
}
