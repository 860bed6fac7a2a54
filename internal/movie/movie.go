// Package movie ties container chunk enumeration together with typed chunk
// decoding into a single queryable MovieFile: cast-member lookups by
// number, KeyTable joins resolving a member's owned bitmap/sound/script
// chunk, and script-chunk resolution for the Lingo VM.
package movie

import (
	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/codec"
	"github.com/libreshockwave/shockwave/internal/container"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// MovieFile is a fully decoded Director movie or external cast: the raw
// container plus every typed chunk table reachable from it.
type MovieFile struct {
	Container *container.Container

	Config        *chunks.Config
	CastTable     *chunks.CastTable
	KeyTable      *chunks.KeyTable
	ScriptContext *chunks.ScriptContext
	ScriptNames   *chunks.ScriptNames
	Score         *chunks.Score

	members map[uint32]*chunks.CastMember // keyed by cast member chunk id
	scripts map[uint32]*chunks.Script     // keyed by script chunk id
}

// Load parses raw movie/cast bytes and decodes every chunk the chunks
// registry (chunks.Decode/chunks.Known) recognizes, tolerating and skipping
// any it does not.
func Load(data []byte) (*MovieFile, error) {
	c, err := container.Parse(data)
	if err != nil {
		return nil, err
	}
	mv := &MovieFile{
		Container: c,
		members:   map[uint32]*chunks.CastMember{},
		scripts:   map[uint32]*chunks.Script{},
	}

	// Config must decode first: CastMember header layout is Director-version
	// gated, and that version lives in Config.
	directorVersion := 0
	if rec, ok := configRecord(c); ok {
		if decoded, err := chunks.Decode(rec.FourCC, rec.Data, c.Order, 0); err == nil {
			cfg := decoded.(*chunks.Config)
			mv.Config = cfg
			directorVersion = int(cfg.DirectorVersion)
		}
	}

	var pendingMembers []struct {
		id   uint32
		data []byte
	}

	for _, id := range c.IDs() {
		rec, _ := c.Chunk(id)
		if container.IsFree(rec) || rec.Data == nil {
			continue
		}
		if rec.FourCC == [4]byte{'D', 'R', 'C', 'F'} {
			continue // already decoded above
		}
		if rec.FourCC == [4]byte{'C', 'A', 'S', 't'} {
			// CastMember decoding needs the Director version resolved above,
			// so defer it to a second pass over the registry.
			pendingMembers = append(pendingMembers, struct {
				id   uint32
				data []byte
			}{uint32(id), rec.Data})
			continue
		}
		if !chunks.Known(rec.FourCC) {
			continue
		}
		decoded, err := chunks.Decode(rec.FourCC, rec.Data, c.Order, directorVersion)
		if err != nil {
			continue
		}
		switch t := decoded.(type) {
		case *chunks.CastTable:
			mv.CastTable = t
		case *chunks.KeyTable:
			mv.KeyTable = t
		case *chunks.ScriptContext:
			mv.ScriptContext = t
		case *chunks.ScriptNames:
			mv.ScriptNames = t
		case *chunks.Score:
			mv.Score = t
		case *chunks.Script:
			mv.scripts[uint32(id)] = t
		}
	}

	for _, pm := range pendingMembers {
		decoded, err := chunks.Decode([4]byte{'C', 'A', 'S', 't'}, pm.data, c.Order, directorVersion)
		if err != nil {
			continue
		}
		mv.members[pm.id] = decoded.(*chunks.CastMember)
	}

	return mv, nil
}

// configRecord finds the DRCF chunk, which carries no stable chunk id across
// container variants and so must be located by FourCC scan rather than a
// known index.
func configRecord(c *container.Container) (container.ChunkRecord, bool) {
	for _, id := range c.IDs() {
		rec, _ := c.Chunk(id)
		if rec.FourCC == [4]byte{'D', 'R', 'C', 'F'} && len(rec.Data) > 0 {
			return rec, true
		}
	}
	return container.ChunkRecord{}, false
}

// Member returns the decoded cast member stored at chunk id, and whether it
// was found.
func (mv *MovieFile) Member(chunkID uint32) (*chunks.CastMember, bool) {
	m, ok := mv.members[chunkID]
	return m, ok
}

// MemberByNumber resolves a 1-based cast member slot via the CastTable
// indirection, then looks up the CastMember chunk.
func (mv *MovieFile) MemberByNumber(number int) (*chunks.CastMember, bool) {
	if mv.CastTable == nil || number < 1 || number > len(mv.CastTable.MemberChunkIDs) {
		return nil, false
	}
	id := mv.CastTable.MemberChunkIDs[number-1]
	if id == 0 {
		return nil, false
	}
	return mv.Member(id)
}

// MemberChunkIDByNumber resolves a 1-based cast member slot to its backing
// chunk id via the CastTable, without decoding the member itself.
func (mv *MovieFile) MemberChunkIDByNumber(number int) (uint32, bool) {
	if mv.CastTable == nil || number < 1 || number > len(mv.CastTable.MemberChunkIDs) {
		return 0, false
	}
	id := mv.CastTable.MemberChunkIDs[number-1]
	if id == 0 {
		return 0, false
	}
	return id, true
}

// OwnedChunk resolves the chunk of kind fourcc owned by the cast member at
// ownerChunkID via the KeyTable join, returning its raw bytes.
func (mv *MovieFile) OwnedChunk(ownerChunkID uint32, fourcc [4]byte) ([]byte, bool) {
	if mv.KeyTable == nil {
		return nil, false
	}
	ownedID, ok := mv.KeyTable.Lookup(ownerChunkID, fourcc)
	if !ok {
		return nil, false
	}
	rec, ok := mv.Container.Chunk(container.ChunkID(ownedID))
	if !ok || container.IsFree(rec) {
		return nil, false
	}
	return rec.Data, true
}

// Script returns the decoded script at chunk id.
func (mv *MovieFile) Script(chunkID uint32) (*chunks.Script, bool) {
	s, ok := mv.scripts[chunkID]
	return s, ok
}

// Scripts returns every decoded script keyed by chunk id, for seeding a
// lingo.VM's Scripts table wholesale.
func (mv *MovieFile) Scripts() map[uint32]*chunks.Script {
	return mv.scripts
}

// ScriptForMember resolves the script owned by a cast member (via KeyTable
// Lscr ownership) and decodes it.
func (mv *MovieFile) ScriptForMember(memberChunkID uint32) (*chunks.Script, uint32, bool) {
	if mv.KeyTable == nil {
		return nil, 0, false
	}
	ownedID, ok := mv.KeyTable.Lookup(memberChunkID, [4]byte{'L', 's', 'c', 'r'})
	if !ok {
		return nil, 0, false
	}
	s, ok := mv.scripts[ownedID]
	return s, ownedID, ok
}

// ScriptByContextSlot resolves script-context slot i (0-based) to its
// decoded Script, honoring the slot's validity flag.
func (mv *MovieFile) ScriptByContextSlot(i int) (*chunks.Script, uint32, error) {
	if mv.ScriptContext == nil || i < 0 || i >= len(mv.ScriptContext.Entries) {
		return nil, 0, coreerrors.NewDecodeError("UnknownChunk", "movie.ScriptByContextSlot", nil)
	}
	entry := mv.ScriptContext.Entries[i]
	if !entry.Valid {
		return nil, 0, coreerrors.NewDecodeError("UnknownChunk", "movie.ScriptByContextSlot: invalid slot", nil)
	}
	s, ok := mv.scripts[entry.ScriptChunkID]
	if !ok {
		return nil, 0, coreerrors.NewDecodeError("UnknownChunk", "movie.ScriptByContextSlot: missing script", nil)
	}
	return s, entry.ScriptChunkID, nil
}

// Order returns the container's byte order, used by callers decoding
// bitmap/sound payloads owned by a member.
func (mv *MovieFile) Order() codec.Endian { return mv.Container.Order }
