package repository

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/database"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
)

// MaxPrizeRanks bounds the record set replaced per competition.
const MaxPrizeRanks = 3

type PrizeRepository interface {
	ReplaceForCompetition(ctx context.Context, competitionID string, prizes []models.Prize) *apperrors.AppError
	GetByCompetition(ctx context.Context, competitionID string) ([]models.Prize, *apperrors.AppError)
	MarkDistributed(ctx context.Context, competitionID string, rank int) *apperrors.AppError
}

type prizeRepo struct {
	db     *database.DynamoDBClient
	logger *logger.Logger
}

func NewPrizeRepository(db *database.DynamoDBClient, log *logger.Logger) PrizeRepository {
	return &prizeRepo{
		db:     db,
		logger: log.With("component", "PrizeRepository"),
	}
}

// ReplaceForCompetition installs the given prizes as the authoritative set
// for the competition in one transaction. Ranks missing from the new
// calculation are deleted so a shrunken competition never keeps stale rows.
func (r *prizeRepo) ReplaceForCompetition(ctx context.Context, competitionID string, prizes []models.Prize) *apperrors.AppError {
	byRank := make(map[int]models.Prize, len(prizes))
	for _, prize := range prizes {
		byRank[prize.Rank] = prize
	}

	tb := database.NewTransactionBuilder()

	for rank := 1; rank <= MaxPrizeRanks; rank++ {
		if prize, ok := byRank[rank]; ok {
			prize.PK = models.PrizePK(competitionID)
			prize.SK = models.PrizeSK(rank)

			item, err := attributevalue.MarshalMap(prize)
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to marshal prize")
			}

			if err := tb.AddPut(types.Put{
				TableName: aws.String(r.db.Table()),
				Item:      item,
			}); err != nil {
				return apperrors.Wrap(err, apperrors.CodeTransactionError, "failed to build prize transaction")
			}
		} else {
			if err := tb.AddDelete(types.Delete{
				TableName: aws.String(r.db.Table()),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: models.PrizePK(competitionID)},
					"SK": &types.AttributeValueMemberS{Value: models.PrizeSK(rank)},
				},
			}); err != nil {
				return apperrors.Wrap(err, apperrors.CodeTransactionError, "failed to build prize transaction")
			}
		}
	}

	if err := tb.Execute(ctx, r.db.Client); err != nil {
		r.logger.Error("Failed to replace prize set",
			"error", err,
			"competition_id", competitionID,
		)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to replace prize set")
	}

	return nil
}

func (r *prizeRepo) GetByCompetition(ctx context.Context, competitionID string) ([]models.Prize, *apperrors.AppError) {
	result, err := r.db.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.db.Table()),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.PrizePK(competitionID)},
		},
	})
	if err != nil {
		r.logger.Error("Failed to query prizes",
			"error", err,
			"competition_id", competitionID,
		)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to query prizes")
	}

	prizes := make([]models.Prize, 0, len(result.Items))
	for _, item := range result.Items {
		var prize models.Prize
		if err := attributevalue.UnmarshalMap(item, &prize); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeObjectUnmarshalError, "failed to unmarshal prize")
		}
		prizes = append(prizes, prize)
	}

	sort.Slice(prizes, func(i, j int) bool { return prizes[i].Rank < prizes[j].Rank })

	return prizes, nil
}

// MarkDistributed transitions pending -> distributed. The condition keeps the
// transition one-way and fails on a rank that was never calculated.
func (r *prizeRepo) MarkDistributed(ctx context.Context, competitionID string, rank int) *apperrors.AppError {
	_, err := r.db.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.db.Table()),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: models.PrizePK(competitionID)},
			"SK": &types.AttributeValueMemberS{Value: models.PrizeSK(rank)},
		},
		UpdateExpression:    aws.String("SET #status = :distributed"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":distributed": &types.AttributeValueMemberS{Value: models.PrizeStatusDistributed},
			":pending":     &types.AttributeValueMemberS{Value: models.PrizeStatusPending},
		},
	})
	if err != nil {
		r.logger.Error("Failed to mark prize distributed",
			"error", err,
			"competition_id", competitionID,
			"rank", rank,
		)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to mark prize distributed")
	}

	return nil
}
