package prydb

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/polarysfoundation/chainlab/modules/core/block"
	polarysdb "github.com/polarysfoundation/polarys_db"
	"github.com/sirupsen/logrus"
)

// ChainInfo is the per-chain record kept in the chains table.
type ChainInfo struct {
	ID         uuid.UUID `json:"id"`
	Difficulty int       `json:"difficulty"`
	Length     int       `json:"length"`
	UpdatedAt  int64     `json:"updated_at"`
}

type Database struct {
	db   *polarysdb.Database
	log  *logrus.Logger
	lock sync.Mutex
}

func InitDB(path string, passphrase string, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	db, err := polarysdb.Init(polarysdb.GenerateKeyFromBytes([]byte(passphrase)), path)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", path, err)
	}

	database := &Database{
		db:  db,
		log: logger,
	}
	if err := database.initialize(); err != nil {
		return nil, err
	}

	return database, nil
}

func (db *Database) initialize() error {
	for _, table := range []string{chainsTable, latestTable} {
		if err := db.ensure(table); err != nil {
			return err
		}
	}

	return nil
}

func (db *Database) ensure(table string) error {
	if db.db.Exist(table) {
		return nil
	}

	return db.db.Create(table)
}

// SaveChain writes every block of the chain and its record. Blocks are
// stored in their serialized form so tampered blocks persist as tampered.
func (db *Database) SaveChain(id uuid.UUID, difficulty int, blocks []*block.Block) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	table := fmt.Sprintf(blocksTable, id.String())
	if err := db.ensure(table); err != nil {
		return err
	}

	for _, blk := range blocks {
		b, err := blk.Serialize()
		if err != nil {
			return err
		}

		if err := db.db.Write(table, strconv.FormatUint(blk.Index(), 10), string(b)); err != nil {
			return err
		}
	}

	info := ChainInfo{
		ID:         id,
		Difficulty: difficulty,
		Length:     len(blocks),
		UpdatedAt:  time.Now().Unix(),
	}

	b, err := json.Marshal(info)
	if err != nil {
		return err
	}

	if err := db.db.Write(chainsTable, id.String(), string(b)); err != nil {
		return err
	}

	db.log.WithFields(logrus.Fields{
		"chain_id": id,
		"blocks":   len(blocks),
	}).Debug("Chain saved")

	return nil
}

func (db *Database) Chain(id uuid.UUID) (ChainInfo, error) {
	data, ok := db.db.Read(chainsTable, id.String())
	if !ok {
		return ChainInfo{}, fmt.Errorf("%w: %s", ErrChainNotFound, id)
	}

	return decodeInfo(data)
}

// LoadChain reads the blocks of a saved chain in index order.
func (db *Database) LoadChain(id uuid.UUID) ([]*block.Block, error) {
	info, err := db.Chain(id)
	if err != nil {
		return nil, err
	}

	table := fmt.Sprintf(blocksTable, id.String())
	blocks := make([]*block.Block, 0, info.Length)

	for i := 0; i < info.Length; i++ {
		data, ok := db.db.Read(table, strconv.Itoa(i))
		if !ok {
			return nil, fmt.Errorf("%w: chain %s index %d", ErrBlockNotFound, id, i)
		}

		s, err := decodeString(data)
		if err != nil {
			return nil, err
		}

		var blk block.Block
		if err := blk.Deserialize([]byte(s)); err != nil {
			return nil, fmt.Errorf("decode block %d: %w", i, err)
		}

		blocks = append(blocks, &blk)
	}

	return blocks, nil
}

// Chains lists saved chains, most recently updated first.
func (db *Database) Chains() ([]ChainInfo, error) {
	data, err := db.db.ReadBatch(chainsTable)
	if err != nil {
		return nil, err
	}

	chains := make([]ChainInfo, 0, len(data))
	for _, v := range data {
		info, err := decodeInfo(v)
		if err != nil {
			return nil, err
		}
		chains = append(chains, info)
	}

	sort.Slice(chains, func(i, j int) bool {
		if chains[i].UpdatedAt != chains[j].UpdatedAt {
			return chains[i].UpdatedAt > chains[j].UpdatedAt
		}
		return chains[i].ID.String() < chains[j].ID.String()
	})

	return chains, nil
}

func (db *Database) SetLatest(id uuid.UUID) error {
	return db.db.Write(latestTable, latestKey, id.String())
}

func (db *Database) Latest() (uuid.UUID, error) {
	data, ok := db.db.Read(latestTable, latestKey)
	if !ok {
		return uuid.Nil, ErrNoLatestChain
	}

	s, err := decodeString(data)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(s)
}

func decodeInfo(data any) (ChainInfo, error) {
	s, err := decodeString(data)
	if err != nil {
		return ChainInfo{}, err
	}

	var info ChainInfo
	if err := json.Unmarshal([]byte(s), &info); err != nil {
		return ChainInfo{}, err
	}

	return info, nil
}

func decodeString(data any) (string, error) {
	if s, ok := data.(string); ok {
		return s, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", err
	}

	return s, nil
}
