package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"portfoliodash/internal/config"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *handler) storeLockMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/storage/switch" {
			next.ServeHTTP(w, r)
			return
		}
		h.storeMu.RLock()
		defer h.storeMu.RUnlock()
		next.ServeHTTP(w, r)
	})
}

func (h *handler) downloadWorkbook(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.WorkbookBytes()
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(h.store.WorkbookPath())))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) getStorageInfo(w http.ResponseWriter, r *http.Request) {
	workbookPath := h.store.WorkbookPath()
	dataDir := filepath.Dir(workbookPath)
	workbookName := filepath.Base(workbookPath)

	available, err := listWorkbookFiles(dataDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("list storage files: %w", err).Error())
			return
		}
		available = []string{}
	}
	if !containsString(available, workbookName) {
		available = append([]string{workbookName}, available...)
	}

	canSwitch := !config.WorkbookPinned()
	reason := ""
	if !canSwitch {
		reason = "Switching disabled when the workbook path is pinned by flag or PORTFOLIO_WORKBOOK_PATH."
	}

	writeJSON(w, http.StatusOK, storageInfoResponse{
		WorkbookName: workbookName,
		WorkbookPath: workbookPath,
		SheetName:    h.store.SheetName(),
		DataDir:      dataDir,
		Available:    available,
		CanSwitch:    canSwitch,
		SwitchReason: reason,
	})
}

func (h *handler) switchStorage(w http.ResponseWriter, r *http.Request) {
	if config.WorkbookPinned() {
		writeError(w, http.StatusBadRequest, "switching disabled when the workbook path is pinned")
		return
	}

	var payload storageSwitchPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name, err := sanitizeWorkbookName(payload.WorkbookName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.storeMu.RLock()
	current := h.store
	h.storeMu.RUnlock()
	if current == nil {
		writeError(w, http.StatusInternalServerError, "no active workbook")
		return
	}

	targetPath := filepath.Join(filepath.Dir(current.WorkbookPath()), name)
	if filepath.Clean(current.WorkbookPath()) == filepath.Clean(targetPath) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "active", "workbook_name": name})
		return
	}

	if info, err := os.Stat(targetPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !payload.Create {
				writeError(w, http.StatusNotFound, "workbook not found")
				return
			}
		} else {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("stat workbook: %w", err).Error())
			return
		}
	} else if info.IsDir() {
		writeError(w, http.StatusBadRequest, "workbook path is a directory")
		return
	}

	next, err := current.Reopen(targetPath)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, fmt.Errorf("open workbook: %w", err))
		return
	}
	if payload.Create {
		if err := next.Flush(); err != nil {
			_ = next.Close()
			writeErrorResponse(w, r, http.StatusInternalServerError, err)
			return
		}
	}

	if err := config.SelectWorkbook(name); err != nil {
		if closeErr := next.Close(); closeErr != nil {
			h.logger.Error("failed to close new store after config save error", "err", closeErr)
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save config: %w", err).Error())
		return
	}

	h.storeMu.Lock()
	old := h.store
	h.store = next
	h.storeMu.Unlock()

	if old != nil {
		if closeErr := old.Close(); closeErr != nil {
			h.logger.Error("failed to close old store after workbook switch", "err", closeErr)
		}
	}
	h.logger.Info("workbook switched", "from", old.WorkbookPath(), "to", targetPath)

	writeJSON(w, http.StatusOK, map[string]string{"status": "switched", "workbook_name": name})
}

func sanitizeWorkbookName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("workbook name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", errors.New("workbook name must not include a path")
	}
	name = filepath.Base(name)
	if name == "." || name == ".." {
		return "", errors.New("invalid workbook name")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		name += ".xlsx"
	}
	return name, nil
}

func listWorkbookFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
