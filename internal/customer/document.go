package customer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// familyDocVersion is the shape written by this code. Version 1 documents
// are bare arrays using aadhaarNumber/relationship keys and are upgraded
// on read; anything else is rejected.
const familyDocVersion = 2

type familyDocument struct {
	SchemaVersion int            `json:"schemaVersion"`
	Members       []FamilyMember `json:"members"`
}

type legacyFamilyMember struct {
	Name          string `json:"name"`
	AadhaarNumber string `json:"aadhaarNumber"`
	Relationship  string `json:"relationship"`
	Age           int    `json:"age"`
}

func encodeFamilyMembers(members []FamilyMember) ([]byte, error) {
	if members == nil {
		members = []FamilyMember{}
	}
	return json.Marshal(familyDocument{SchemaVersion: familyDocVersion, Members: members})
}

func decodeFamilyMembers(raw []byte) ([]FamilyMember, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []FamilyMember{}, nil
	}

	if raw[0] == '[' {
		var legacy []legacyFamilyMember
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
		}
		members := make([]FamilyMember, 0, len(legacy))
		for _, m := range legacy {
			members = append(members, FamilyMember{
				Name:       m.Name,
				Relation:   m.Relationship,
				Age:        m.Age,
				NationalID: m.AadhaarNumber,
			})
		}
		return members, nil
	}

	var doc familyDocument
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}
	if doc.SchemaVersion != familyDocVersion {
		return nil, fmt.Errorf("%w: schema version %d", ErrUnsupportedDocument, doc.SchemaVersion)
	}
	if doc.Members == nil {
		doc.Members = []FamilyMember{}
	}
	return doc.Members, nil
}
