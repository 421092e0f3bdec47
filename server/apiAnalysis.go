package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/www"
	"github.com/fitvision/formcheck/pkg/form"
	"github.com/fitvision/formcheck/pkg/pose"
	"github.com/fitvision/formcheck/pkg/rando"
	"github.com/fitvision/formcheck/pkg/videox"
	"github.com/fitvision/formcheck/server/model"
	"github.com/fitvision/formcheck/server/storage"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"gorm.io/gorm"
)

const minVideoDuration = 1 * time.Second

// Blob storage layout: analyses/<id>/video.mp4 and analyses/<id>/thumb.jpg
func blobFilename(analysisID int64, file string) string {
	return fmt.Sprintf("analyses/%v/%v", analysisID, file)
}

// Upload a video and analyze it.
// The video arrives as the raw request body. Metadata comes in as query
// parameters: userID, exerciseType, and optionally jobID. If the caller
// supplies a jobID, it can follow analysis progress on the websocket feed
// before this request returns.
func (s *Server) httpAnalyzeVideo(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if r.ContentLength > s.maxUploadBytes {
		www.PanicBadRequestf("Request body is too large: %v. Maximum size: %v MB", r.ContentLength, s.maxUploadBytes/(1024*1024))
	}
	userID := strings.TrimSpace(www.RequiredQueryValue(r, "userID"))
	exerciseType := strings.TrimSpace(www.RequiredQueryValue(r, "exerciseType"))
	jobID := www.QueryValue(r, "jobID")
	if jobID == "" {
		jobID = uuid.NewString()
	}
	s.Log.Infof("Video incoming from user %v (exercise %v, job %v)", userID, exerciseType, jobID)

	body := www.ReadLimited(w, r, s.maxUploadBytes)
	tempFile := rando.TempFilename(".mp4")
	defer os.Remove(tempFile)
	www.Check(os.WriteFile(tempFile, body, 0600))

	duration, err := videox.ExtractVideoDuration(tempFile)
	if err != nil {
		www.PanicBadRequestf("Unable to read video: %v", err)
	}
	if duration < minVideoDuration {
		www.PanicBadRequestf("Video is too short: %.1f seconds. Minimum duration: %.0f seconds", duration.Seconds(), minVideoDuration.Seconds())
	}
	if duration > form.DefaultMaxVideoDuration {
		www.PanicBadRequestf("Video is too long: %.1f seconds. Maximum duration: %.0f seconds", duration.Seconds(), form.DefaultMaxVideoDuration.Seconds())
	}

	src, err := videox.NewFileFrameSource(tempFile, pose.DefaultMaxFrames)
	www.Check(err)
	defer src.Close()

	seq, err := pose.BuildSequence(s.Log, src, s.estimator, pose.BuildOptions{
		OnProgress: func(framesScanned, posesFound int) {
			s.progress.Publish(&ProgressEvent{JobID: jobID, FramesScanned: framesScanned, PosesFound: posesFound})
		},
	})
	var result *form.AnalysisResult
	if errors.Is(err, pose.ErrNoPoseDetected) {
		result = s.analyzer.ErrorResult("No pose detected in video")
		seq = nil
	} else {
		www.Check(err)
		result = s.analyzer.Analyze(seq, exerciseType)
	}
	feedback := form.FormatFeedback(result)

	// Thumbnail from the middle of the video, with the pose wireframe drawn
	// on top when we have one.
	thumb, err := videox.ExtractFrame(tempFile, duration.Seconds()/2, 1280)
	www.Check(err)
	if seq != nil {
		mid := &seq.Frames[len(seq.Frames)/2]
		thumb, err = RenderSkeleton(thumb, mid)
		www.Check(err)
	}

	rec := model.VideoAnalysis{
		UserID:       userID,
		ExerciseType: exerciseType,
		CreatedAt:    dbh.Milli(time.Now().UTC()),
		Result:       dbh.MakeJSONField(*result),
		Feedback:     feedback,
	}
	tx := s.DB.Begin()
	www.Check(tx.Error)
	defer tx.Rollback()
	www.Check(tx.Create(&rec).Error)
	rec.VideoFilename = blobFilename(rec.ID, "video.mp4")
	www.Check(tx.Model(&rec).Update("video_filename", rec.VideoFilename).Error)
	www.Check(storage.WriteFile(s.storage, rec.VideoFilename, bytes.NewReader(body)))
	www.Check(storage.WriteFile(s.storage, blobFilename(rec.ID, "thumb.jpg"), bytes.NewReader(thumb)))
	www.Check(tx.Commit().Error)

	s.progress.Publish(&ProgressEvent{JobID: jobID, FramesScanned: seqFramesScanned(seq), PosesFound: seqPosesFound(seq), Done: true})
	www.SendJSON(w, &rec)
	s.Log.Infof("Analysis %v complete for user %v: %v scored %v (%v)", rec.ID, userID, exerciseType, result.FormScore, result.FormRating)
}

func (s *Server) getAnalysisOrPanic(id string) *model.VideoAnalysis {
	rec := model.VideoAnalysis{}
	err := s.DB.First(&rec, www.ParseID(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		www.PanicNotFound()
	}
	www.Check(err)
	return &rec
}

func (s *Server) httpGetAnalysis(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendJSON(w, s.getAnalysisOrPanic(params.ByName("id")))
}

func (s *Server) httpListUserAnalyses(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	recs := []model.VideoAnalysis{}
	www.Check(s.DB.Where("user_id = ?", params.ByName("userID")).Order("created_at DESC").Find(&recs).Error)
	www.SendJSON(w, recs)
}

func (s *Server) httpDeleteAnalysis(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	rec := s.getAnalysisOrPanic(params.ByName("id"))
	if err := s.storage.DeleteFile(rec.VideoFilename); err != nil {
		s.Log.Warnf("Failed to delete video blob %v: %v", rec.VideoFilename, err)
	}
	if err := s.storage.DeleteFile(blobFilename(rec.ID, "thumb.jpg")); err != nil {
		s.Log.Warnf("Failed to delete thumbnail blob for analysis %v: %v", rec.ID, err)
	}
	www.Check(s.DB.Delete(&model.VideoAnalysis{}, rec.ID).Error)
	s.Log.Infof("Deleted analysis %v", rec.ID)
	www.SendOK(w)
}

func (s *Server) httpGetAnalysisVideo(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	rec := s.getAnalysisOrPanic(params.ByName("id"))
	file, err := s.storage.ReadFile(rec.VideoFilename)
	www.Check(err)
	defer file.Reader.Close()
	w.Header().Set("Content-Type", "video/mp4")
	if seeker, ok := file.Reader.(io.ReadSeeker); ok {
		http.ServeContent(w, r, "video.mp4", rec.CreatedAt.Time, seeker)
	} else {
		io.Copy(w, file.Reader)
	}
}

func (s *Server) httpGetAnalysisThumbnail(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	rec := s.getAnalysisOrPanic(params.ByName("id"))
	file, err := s.storage.ReadFile(blobFilename(rec.ID, "thumb.jpg"))
	www.Check(err)
	defer file.Reader.Close()
	w.Header().Set("Content-Type", "image/jpeg")
	io.Copy(w, file.Reader)
}

func seqFramesScanned(seq *pose.Sequence) int {
	if seq == nil {
		return 0
	}
	return seq.FramesScanned
}

func seqPosesFound(seq *pose.Sequence) int {
	if seq == nil {
		return 0
	}
	return len(seq.Frames)
}
