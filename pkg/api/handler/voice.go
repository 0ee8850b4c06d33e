package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/familybot/companion/pkg/api/response"
)

const maxVoiceUploadBytes = 20 << 20

type voice struct {
	store     ChatStore
	converter VoiceConverter
	writer    response.JSONResponseWriter
}

func NewVoice(store ChatStore, converter VoiceConverter) *voice {
	return &voice{
		store:     store,
		converter: converter,
		writer:    response.JSONResponseWriter{},
	}
}

// SendVoiceMessage accepts a recorded voice note, transcribes it and pushes
// the text through the normal send pipeline.
func (v *voice) SendVoiceMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxVoiceUploadBytes); err != nil {
		v.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		v.writer.WriteErrorResponse(w, http.StatusBadRequest, "audio_file is missing")
		return
	}
	defer file.Close()

	v.store.SetRecording(true)
	defer v.store.SetRecording(false)

	voicePath, err := saveUpload(file, header.Filename)
	if err != nil {
		v.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(voicePath)

	text, err := v.converter.Convert(voicePath)
	if err != nil {
		v.writer.WriteErrorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	message, err := v.store.SendMessage(r.Context(), text, false)
	if err != nil {
		v.writer.WriteErrorResponse(w, sendStatusCode(err), err.Error())
		return
	}

	v.writer.WriteSuccessResponse(w, renderMessage(*message))
}

func saveUpload(file io.Reader, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "voice-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return tmp.Name(), nil
}
