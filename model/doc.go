// Package model holds the JSON shapes exchanged with the QuestPath REST API.
package model
