package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// Lesson identifies a unit of course content. Lessons are reference data
// supplied by the caller and never modified by the scheduler.
type Lesson struct {
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
	LessonIndex int    `json:"lesson_index"` // 0-based position within the course
	LessonTitle string `json:"lesson_title"`
}

// Key returns the lesson's identity within a learner's catalog.
func (l Lesson) Key() LessonKey {
	return LessonKey{CourseID: l.CourseID, LessonIndex: l.LessonIndex}
}

// LessonKey is the (course, lesson index) pair that mastery scores,
// skip lists and tasks are keyed by.
type LessonKey struct {
	CourseID    string `json:"course_id"`
	LessonIndex int    `json:"lesson_index"`
}

// String renders the key as "courseId:lessonIndex", which is also the
// topic key used by the practice composer.
func (k LessonKey) String() string {
	return k.CourseID + ":" + strconv.Itoa(k.LessonIndex)
}

// ParseLessonKey parses the "courseId:lessonIndex" form produced by String.
func ParseLessonKey(s string) (LessonKey, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return LessonKey{}, fmt.Errorf("invalid lesson key %q", s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return LessonKey{}, fmt.Errorf("invalid lesson index in %q: %w", s, err)
	}
	return LessonKey{CourseID: s[:i], LessonIndex: idx}, nil
}

// KeySet is a set of lesson keys.
type KeySet map[LessonKey]struct{}

// NewKeySet builds a set from the given keys.
func NewKeySet(keys ...LessonKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set. A nil set contains nothing.
func (s KeySet) Has(k LessonKey) bool {
	_, ok := s[k]
	return ok
}
