// Package backendtest provides an in-process stand-in for the LMS backend
// REST API. Client and session tests point at it instead of a deployed
// backend; knobs on Server simulate the failure modes the client must
// tolerate (rejection statuses, odd response bodies, missing identifiers).
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

type Server struct {
	httpServer *httptest.Server

	mu          sync.Mutex
	assignments map[string]models.Assignment
	submissions []models.Submission
	submittedAt []time.Time
	ratings     map[string][]models.AccuracyRating
	grades      map[string]float64
	nextID      int

	// Failure / shape knobs. Zero values mean normal behavior.
	SubmitStatus     int    // non-2xx to reject submissions
	SubmitRawBody    string // overrides the JSON body of a 2xx submit response
	SubmitOmitID     bool   // 2xx submit response without any identifier
	SubmitLocationID bool   // identifier only via the Location header
	AssignmentStatus int    // non-2xx for assignment fetches
	TranscribeStatus int    // non-2xx for transcription
	TranscribeText   string // transcript returned on success
	TranscribeField  string // response field holding the transcript (default "transcription")
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		assignments: make(map[string]models.Assignment),
		ratings:     make(map[string][]models.AccuracyRating),
		grades:      make(map[string]float64),
		nextID:      1,
	}

	router := gin.New()
	router.GET("/assignments/", s.listAssignments)
	router.POST("/assignments/", s.createAssignment)
	router.GET("/assignments/:id", s.getAssignment)
	router.POST("/responses/", s.submitResponse)
	router.GET("/responses/", s.listResponses)
	router.PUT("/responses/:id/grade", s.gradeResponse)
	router.PUT("/responses/:id/accuracy-rating", s.saveAccuracyRating)
	router.POST("/api/transcribe", s.transcribe)

	s.httpServer = httptest.NewServer(router)
	return s
}

func (s *Server) URL() string { return s.httpServer.URL }

func (s *Server) Close() { s.httpServer.Close() }

// AddAssignment seeds an assignment the fake backend will serve.
func (s *Server) AddAssignment(a models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = a
}

// Submissions returns a copy of everything POSTed to /responses/.
func (s *Server) Submissions() []models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// SubmitCount returns how many submission POSTs reached the backend,
// including rejected ones.
func (s *Server) SubmitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submissions)
}

// Ratings returns the accuracy ratings saved for one response.
func (s *Server) Ratings(responseID string) []models.AccuracyRating {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AccuracyRating, len(s.ratings[responseID]))
	copy(out, s.ratings[responseID])
	return out
}

// Grade returns the grade recorded for one response, if any.
func (s *Server) Grade(responseID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grades[responseID]
	return g, ok
}

func (s *Server) getAssignment(c *gin.Context) {
	s.mu.Lock()
	status := s.AssignmentStatus
	a, ok := s.assignments[c.Param("id")]
	s.mu.Unlock()

	if status != 0 {
		c.JSON(status, gin.H{"detail": "assignment fetch failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "assignment not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) listAssignments(c *gin.Context) {
	s.mu.Lock()
	out := make([]models.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) createAssignment(c *gin.Context) {
	var a models.Assignment
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	s.assignments[a.ID] = a
	s.mu.Unlock()
	c.JSON(http.StatusCreated, a)
}

func (s *Server) submitResponse(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.submittedAt = append(s.submittedAt, time.Now())
	id := fmt.Sprintf("r%d", s.nextID)
	s.nextID++
	status := s.SubmitStatus
	rawBody := s.SubmitRawBody
	omitID := s.SubmitOmitID
	locationID := s.SubmitLocationID
	s.mu.Unlock()

	if status != 0 && (status < 200 || status >= 300) {
		c.JSON(status, gin.H{"detail": "submission failed"})
		return
	}

	switch {
	case rawBody != "":
		c.Data(http.StatusOK, "application/json", []byte(rawBody))
	case omitID:
		c.Status(http.StatusNoContent)
	case locationID:
		c.Header("Location", "/responses/"+id)
		c.Status(http.StatusCreated)
	default:
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

func (s *Server) listResponses(c *gin.Context) {
	s.mu.Lock()
	out := make([]models.Response, 0, len(s.submissions))
	for i, sub := range s.submissions {
		id := fmt.Sprintf("r%d", i+1)
		resp := models.Response{
			ID:           id,
			AssignmentID: sub.AssignmentID,
			StudentName:  sub.StudentName,
			JNumber:      sub.JNumber,
			Answers:      sub.Answers,
			Transcripts:  sub.Transcripts,
		}
		at := s.submittedAt[i]
		resp.SubmittedAt = &at
		if g, ok := s.grades[id]; ok {
			resp.Grade = &g
		}
		out = append(out, resp)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) gradeResponse(c *gin.Context) {
	grade, err := strconv.ParseFloat(c.Query("grade"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid grade"})
		return
	}
	s.mu.Lock()
	s.grades[c.Param("id")] = grade
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "grade": grade})
}

func (s *Server) saveAccuracyRating(c *gin.Context) {
	var rating models.AccuracyRating
	if err := c.ShouldBindJSON(&rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	id := c.Param("id")
	s.ratings[id] = append(s.ratings[id], rating)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"questionId": rating.QuestionID, "rating": rating.Rating})
}

func (s *Server) transcribe(c *gin.Context) {
	s.mu.Lock()
	status := s.TranscribeStatus
	text := s.TranscribeText
	field := s.TranscribeField
	s.mu.Unlock()

	if status != 0 && (status < 200 || status >= 300) {
		c.JSON(status, gin.H{"detail": "transcription failed"})
		return
	}

	if _, err := c.FormFile("file"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing audio file"})
		return
	}

	if text == "" {
		text = "transcribed text"
	}
	if field == "" {
		field = "transcription"
	}
	c.JSON(http.StatusOK, gin.H{field: text, "context": c.PostForm("context")})
}
