package db

import (
	"context"
	"fmt"
	"time"

	"cosponsor_spider/internal/config"
	"cosponsor_spider/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	client      *mongo.Client
	database    *mongo.Database
	bills       *mongo.Collection
	politicians *mongo.Collection
}

type billDoc struct {
	ID      string         `bson:"_id"`
	Chamber models.Chamber `bson:"chamber"`
	Session int            `bson:"session"`
	Seq     int            `bson:"seq"`
	Bill    *models.Bill   `bson:"bill"`
}

type politicianDoc struct {
	ID         string             `bson:"_id"`
	Chamber    models.Chamber     `bson:"chamber"`
	Session    int                `bson:"session"`
	Politician *models.Politician `bson:"politician"`
}

func runFilter(chamber models.Chamber, session int) bson.M {
	return bson.M{"chamber": chamber, "session": session}
}

func NewMongoDB(cfg config.DBConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Connection))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("can't ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)
	d := &MongoDB{
		client:      client,
		database:    database,
		bills:       database.Collection(cfg.Collections.Bills),
		politicians: database.Collection(cfg.Collections.Politicians),
	}

	if err := d.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("can't create indices: %w", err)
	}
	return d, nil
}

func (d *MongoDB) createIndexes(ctx context.Context) error {
	keys := bson.D{{Key: "chamber", Value: 1}, {Key: "session", Value: 1}}

	billIndex := mongo.IndexModel{Keys: append(keys, bson.E{Key: "seq", Value: 1})}
	if _, err := d.bills.Indexes().CreateOne(ctx, billIndex); err != nil {
		return err
	}
	if _, err := d.politicians.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
		return err
	}
	return nil
}

// Save replaces every stored document of the snapshot's chamber and session.
func (d *MongoDB) Save(ctx context.Context, snap *Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	filter := runFilter(snap.Chamber, snap.Session)
	if _, err := d.bills.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("clear bills: %w", err)
	}
	if _, err := d.politicians.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("clear politicians: %w", err)
	}

	prefix := fmt.Sprintf("%s-%d-", snap.Chamber.Code(), snap.Session)

	if len(snap.Bills) > 0 {
		docs := make([]interface{}, 0, len(snap.Bills))
		for i, b := range snap.Bills {
			docs = append(docs, billDoc{
				ID:      prefix + fmt.Sprint(b.Number),
				Chamber: snap.Chamber,
				Session: snap.Session,
				Seq:     i,
				Bill:    b,
			})
		}
		if _, err := d.bills.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert bills: %w", err)
		}
	}

	if len(snap.Politicians) > 0 {
		docs := make([]interface{}, 0, len(snap.Politicians))
		for id, p := range snap.Politicians {
			docs = append(docs, politicianDoc{
				ID:         prefix + id,
				Chamber:    snap.Chamber,
				Session:    snap.Session,
				Politician: p,
			})
		}
		if _, err := d.politicians.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert politicians: %w", err)
		}
	}
	return nil
}

func (d *MongoDB) Load(ctx context.Context, chamber models.Chamber, session int) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	filter := runFilter(chamber, session)

	cursor, err := d.bills.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find bills: %w", err)
	}
	var bills []billDoc
	if err := cursor.All(ctx, &bills); err != nil {
		return nil, fmt.Errorf("decode bills: %w", err)
	}

	cursor, err = d.politicians.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find politicians: %w", err)
	}
	var politicians []politicianDoc
	if err := cursor.All(ctx, &politicians); err != nil {
		return nil, fmt.Errorf("decode politicians: %w", err)
	}

	if len(bills) == 0 && len(politicians) == 0 {
		return nil, fmt.Errorf("%w: %s %d in MongoDB", ErrSnapshotNotFound, chamber, session)
	}

	snap := &Snapshot{
		Chamber:     chamber,
		Session:     session,
		Bills:       make([]*models.Bill, 0, len(bills)),
		Politicians: make(map[string]*models.Politician, len(politicians)),
	}
	for _, doc := range bills {
		snap.Bills = append(snap.Bills, doc.Bill)
	}
	for _, doc := range politicians {
		snap.Politicians[doc.Politician.ID] = doc.Politician
	}
	return snap, nil
}

func (d *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}
