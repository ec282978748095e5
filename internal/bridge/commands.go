package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shelfnote/shelfnote/internal/folders"
	"github.com/shelfnote/shelfnote/internal/notes"
	"github.com/shelfnote/shelfnote/internal/optional"
	"github.com/shelfnote/shelfnote/internal/settings"
	"github.com/shelfnote/shelfnote/internal/stickynotes"
	"go.uber.org/zap"
)

var (
	errMissingFolders     = errors.New("folder repository dependency required")
	errMissingNotes       = errors.New("note repository dependency required")
	errMissingStickyNotes = errors.New("sticky note repository dependency required")
	errMissingSettings    = errors.New("settings repository dependency required")
)

// Dependencies carries the repositories the dispatcher exposes.
type Dependencies struct {
	Folders     *folders.Repository
	Notes       *notes.Repository
	StickyNotes *stickynotes.Repository
	Settings    *settings.Repository
	Logger      *zap.Logger
}

// NewDispatcher validates the dependencies and registers the full command set.
func NewDispatcher(deps Dependencies) (*Dispatcher, error) {
	if deps.Folders == nil {
		return nil, errMissingFolders
	}
	if deps.Notes == nil {
		return nil, errMissingNotes
	}
	if deps.StickyNotes == nil {
		return nil, errMissingStickyNotes
	}
	if deps.Settings == nil {
		return nil, errMissingSettings
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatcher := &Dispatcher{handlers: make(map[string]Handler), logger: logger}
	registerFolderCommands(dispatcher, deps.Folders)
	registerNoteCommands(dispatcher, deps.Notes)
	registerStickyNoteCommands(dispatcher, deps.StickyNotes)
	registerSettingsCommands(dispatcher, deps.Settings)
	return dispatcher, nil
}

type idPayload struct {
	ID int64 `json:"id"`
}

type createFolderPayload struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId"`
}

type updateFolderPayload struct {
	ID       int64                  `json:"id"`
	Name     optional.Value[string] `json:"name"`
	ParentID optional.Value[*int64] `json:"parentId"`
}

func registerFolderCommands(d *Dispatcher, repository *folders.Repository) {
	d.register("folders.list", func(ctx context.Context, _ json.RawMessage) (any, bool, error) {
		all, err := repository.ListAll(ctx)
		if err != nil {
			return nil, false, err
		}
		return all, true, nil
	})

	d.register("folders.get", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[idPayload](payload)
		if err != nil {
			return nil, false, err
		}
		folder, err := repository.GetByID(ctx, request.ID)
		if err != nil {
			return nil, false, err
		}
		return folder, folder != nil, nil
	})

	d.register("folders.getItemCounts", func(ctx context.Context, _ json.RawMessage) (any, bool, error) {
		counts, err := repository.ItemCounts(ctx)
		if err != nil {
			return nil, false, err
		}
		return counts, true, nil
	})

	d.register("folders.create", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[createFolderPayload](payload)
		if err != nil {
			return nil, false, err
		}
		folder, err := repository.Create(ctx, request.Name, request.ParentID)
		if err != nil {
			return nil, false, err
		}
		return folder, true, nil
	})

	d.register("folders.update", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[updateFolderPayload](payload)
		if err != nil {
			return nil, false, err
		}
		folder, err := repository.Update(ctx, request.ID, folders.FolderUpdate{
			Name:     request.Name,
			ParentID: request.ParentID,
		})
		if err != nil {
			return nil, false, err
		}
		return folder, folder != nil, nil
	})

	d.register("folders.delete", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[idPayload](payload)
		if err != nil {
			return nil, false, err
		}
		removed, err := repository.Delete(ctx, request.ID)
		if err != nil {
			return nil, false, err
		}
		return removed, removed, nil
	})
}

type listByFolderPayload struct {
	FolderID int64 `json:"folderId"`
}

type updateNotePayload struct {
	ID      int64                  `json:"id"`
	Title   optional.Value[string] `json:"title"`
	Content optional.Value[string] `json:"content"`
}

type searchPayload struct {
	Query string `json:"query"`
}

func registerNoteCommands(d *Dispatcher, repository *notes.Repository) {
	d.register("notes.listByFolder", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[listByFolderPayload](payload)
		if err != nil {
			return nil, false, err
		}
		owned, err := repository.ListByFolder(ctx, request.FolderID)
		if err != nil {
			return nil, false, err
		}
		return owned, true, nil
	})

	d.register("notes.get", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[idPayload](payload)
		if err != nil {
			return nil, false, err
		}
		note, err := repository.GetByID(ctx, request.ID)
		if err != nil {
			return nil, false, err
		}
		return note, note != nil, nil
	})

	d.register("notes.create", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[notes.CreateInput](payload)
		if err != nil {
			return nil, false, err
		}
		note, err := repository.Create(ctx, request)
		if err != nil {
			return nil, false, err
		}
		return note, true, nil
	})

	d.register("notes.update", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[updateNotePayload](payload)
		if err != nil {
			return nil, false, err
		}
		note, err := repository.Update(ctx, request.ID, notes.NoteUpdate{
			Title:   request.Title,
			Content: request.Content,
		})
		if err != nil {
			return nil, false, err
		}
		return note, note != nil, nil
	})

	d.register("notes.delete", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[idPayload](payload)
		if err != nil {
			return nil, false, err
		}
		removed, err := repository.Delete(ctx, request.ID)
		if err != nil {
			return nil, false, err
		}
		return removed, removed, nil
	})

	d.register("notes.search", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[searchPayload](payload)
		if err != nil {
			return nil, false, err
		}
		matches, err := repository.Search(ctx, request.Query)
		if err != nil {
			return nil, false, err
		}
		return matches, true, nil
	})
}

type updateStickyNotePayload struct {
	ID      int64                  `json:"id"`
	Title   optional.Value[string] `json:"title"`
	Content optional.Value[string] `json:"content"`
}

func registerStickyNoteCommands(d *Dispatcher, repository *stickynotes.Repository) {
	d.register("stickyNotes.list", func(ctx context.Context, _ json.RawMessage) (any, bool, error) {
		all, err := repository.ListAll(ctx)
		if err != nil {
			return nil, false, err
		}
		return all, true, nil
	})

	d.register("stickyNotes.get", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[idPayload](payload)
		if err != nil {
			return nil, false, err
		}
		note, err := repository.GetByID(ctx, request.ID)
		if err != nil {
			return nil, false, err
		}
		return note, note != nil, nil
	})

	d.register("stickyNotes.create", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[stickynotes.CreateInput](payload)
		if err != nil {
			return nil, false, err
		}
		note, err := repository.Create(ctx, request)
		if err != nil {
			return nil, false, err
		}
		return note, true, nil
	})

	d.register("stickyNotes.update", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[updateStickyNotePayload](payload)
		if err != nil {
			return nil, false, err
		}
		note, err := repository.Update(ctx, request.ID, stickynotes.StickyNoteUpdate{
			Title:   request.Title,
			Content: request.Content,
		})
		if err != nil {
			return nil, false, err
		}
		return note, note != nil, nil
	})

	d.register("stickyNotes.delete", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[idPayload](payload)
		if err != nil {
			return nil, false, err
		}
		removed, err := repository.Delete(ctx, request.ID)
		if err != nil {
			return nil, false, err
		}
		return removed, removed, nil
	})
}

type keyPayload struct {
	Key string `json:"key"`
}

type setSettingPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func registerSettingsCommands(d *Dispatcher, repository *settings.Repository) {
	d.register("settings.get", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[keyPayload](payload)
		if err != nil {
			return nil, false, err
		}
		setting, err := repository.Get(ctx, request.Key)
		if err != nil {
			return nil, false, err
		}
		if setting == nil {
			return nil, false, nil
		}
		return setting.Value, true, nil
	})

	d.register("settings.set", func(ctx context.Context, payload json.RawMessage) (any, bool, error) {
		request, err := decode[setSettingPayload](payload)
		if err != nil {
			return nil, false, err
		}
		if err := repository.Set(ctx, request.Key, request.Value); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	})

	d.register("settings.getAll", func(ctx context.Context, _ json.RawMessage) (any, bool, error) {
		values, err := repository.GetAll(ctx)
		if err != nil {
			return nil, false, err
		}
		return values, true, nil
	})
}
