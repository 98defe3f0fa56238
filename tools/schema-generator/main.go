package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/mattsolo1/grove-chat/cmd"
)

func main() {
	schema := cmd.ChatConfigSchema()

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	// Write to the package root
	if err := os.WriteFile("chat.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated chat schema at chat.schema.json")
}
