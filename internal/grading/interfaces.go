package grading

import (
	"reviewdojo/internal/content"
	"reviewdojo/internal/linekey"
)

type Grader interface {
	Grade(selected []linekey.Key, ch content.Challenge) Result
}
