package storage

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoDocumentMapping(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	doc := mongoDocument{
		Key:       LayoutKey("", "default"),
		Data:      []byte(`{"version":"3"}`),
		UpdatedAt: when,
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	for _, name := range []string{"_id", "data", "updated_at"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("document is missing field %q: %v", name, fields)
		}
	}
	if fields["_id"] != "dashboard:default:layout" {
		t.Errorf("_id = %v", fields["_id"])
	}

	var back mongoDocument
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Key != doc.Key || string(back.Data) != string(doc.Data) || !back.UpdatedAt.Equal(when) {
		t.Errorf("round trip = %+v, want %+v", back, doc)
	}
}
