package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/eartrainer/model"
	"github.com/pkg/errors"
)

// attemptItem is one row of the progress table. PK groups a unit's
// attempts, SK orders them by time.
type attemptItem struct {
	PK         string            `dynamodbav:"PK"`
	SK         string            `dynamodbav:"SK"`
	MelodyID   string            `dynamodbav:"MelodyId"`
	Timestamp  time.Time         `dynamodbav:"Timestamp"`
	IsFirstTry bool              `dynamodbav:"IsFirstTry"`
	Success    bool              `dynamodbav:"Success"`
	WrongNotes []model.WrongNote `dynamodbav:"WrongNotes"`
}

func unitKey(unitID int) string {
	return "unit#" + strconv.Itoa(unitID)
}

// Progress stores melody attempts in DynamoDB.
type Progress struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewProgress(client dynamodbiface.DynamoDBAPI, table string) *Progress {
	return &Progress{client: client, table: table}
}

// Connect builds a client for endpoint, e.g. http://localhost:8000 for
// DynamoDB Local. An empty endpoint uses the regular AWS resolution.
func Connect(endpoint, region, table string) (*Progress, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a DynamoDB session")
	}
	return NewProgress(dynamodb.New(sess), table), nil
}

func (p *Progress) RecordAttempt(ctx context.Context, unitID int, a model.MelodyAttempt) error {
	item, err := dynamodbattribute.MarshalMap(attemptItem{
		PK:         unitKey(unitID),
		SK:         fmt.Sprintf("%s#%s", a.Timestamp.UTC().Format(time.RFC3339Nano), a.MelodyID),
		MelodyID:   a.MelodyID,
		Timestamp:  a.Timestamp,
		IsFirstTry: a.IsFirstTry,
		Success:    a.Success,
		WrongNotes: a.WrongNotes,
	})
	if err != nil {
		return errors.Wrap(err, "marshalling attempt")
	}
	_, err = p.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.table),
		Item:      item,
	})
	return errors.Wrap(err, "error from DynamoDB")
}

func (p *Progress) Attempts(ctx context.Context, unitID int) ([]model.MelodyAttempt, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(p.table),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":pk": {S: aws.String(unitKey(unitID))},
		},
	}

	var res []model.MelodyAttempt
	for {
		out, err := p.client.QueryWithContext(ctx, input)
		if err != nil {
			return nil, errors.Wrap(err, "error from DynamoDB")
		}
		var items []attemptItem
		if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, errors.Wrap(err, "unmarshalling attempts")
		}
		for _, it := range items {
			res = append(res, model.MelodyAttempt{
				MelodyID:   it.MelodyID,
				Timestamp:  it.Timestamp,
				IsFirstTry: it.IsFirstTry,
				Success:    it.Success,
				WrongNotes: it.WrongNotes,
			})
		}
		if len(out.LastEvaluatedKey) == 0 {
			return res, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
