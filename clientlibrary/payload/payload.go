/*
 * Copyright (c) 2020 VMware, Inc.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of this software and
 * associated documentation files (the "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is furnished to do
 * so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all copies or substantial
 * portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT
 * NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
 * WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 */
// Package payload decodes the data of records produced by well known sources.
package payload

import (
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	kcl "github.com/vmware/vmware-go-kcl-multilang/clientlibrary/interfaces"
)

// ErrNoImage is returned when the change record does not carry the requested image, e.g. the old image
// of an INSERT or any image when the stream view type is KEYS_ONLY.
var ErrNoImage = errors.New("change record has no such image")

// JSON unmarshals the data of record into v.
func JSON(record *kcl.Record, v interface{}) error {
	return record.JSON(v)
}

type (
	// DynamoDBPayload is a DynamoDB table change record delivered through a Kinesis data stream.
	DynamoDBPayload struct {
		AwsRegion    string        `json:"awsRegion"`
		EventID      string        `json:"eventID"`
		EventName    string        `json:"eventName"`
		UserIdentity *UserIdentity `json:"userIdentity"`
		RecordFormat string        `json:"recordFormat"`
		TableName    string        `json:"tableName"`
		EventSource  string        `json:"eventSource"`
		DynamoDB     StreamRecord  `json:"dynamodb"`
	}

	// UserIdentity is set for items deleted by the time to live process.
	UserIdentity struct {
		Type        string `json:"type"`
		PrincipalID string `json:"principalId"`
	}

	// StreamRecord holds the keys and images of the modified item.
	StreamRecord struct {
		// ApproximateCreationDateTime in epoch milliseconds.
		ApproximateCreationDateTime float64                             `json:"ApproximateCreationDateTime"`
		Keys                        map[string]*dynamodb.AttributeValue `json:"Keys"`
		NewImage                    map[string]*dynamodb.AttributeValue `json:"NewImage"`
		OldImage                    map[string]*dynamodb.AttributeValue `json:"OldImage"`
		SequenceNumber              string                              `json:"SequenceNumber"`
		SizeBytes                   int64                               `json:"SizeBytes"`
		StreamViewType              string                              `json:"StreamViewType"`
	}
)

// DecodeDynamoDB decodes the data of record as a DynamoDB change record.
func DecodeDynamoDB(record *kcl.Record) (*DynamoDBPayload, error) {
	var p DynamoDBPayload
	if err := json.Unmarshal(record.Data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// NewItem unmarshals the item as it is after the modification into v, using dynamodbav struct tags.
func (p *DynamoDBPayload) NewItem(v interface{}) error {
	return unmarshalImage(p.DynamoDB.NewImage, v)
}

// OldItem unmarshals the item as it was before the modification into v.
func (p *DynamoDBPayload) OldItem(v interface{}) error {
	return unmarshalImage(p.DynamoDB.OldImage, v)
}

// Key unmarshals the primary key of the modified item into v.
func (p *DynamoDBPayload) Key(v interface{}) error {
	return unmarshalImage(p.DynamoDB.Keys, v)
}

func unmarshalImage(image map[string]*dynamodb.AttributeValue, v interface{}) error {
	if image == nil {
		return ErrNoImage
	}
	return dynamodbattribute.UnmarshalMap(image, v)
}
